// Package pipeline fans river mile datasets out into per-sensor,
// per-year chart jobs and drives each job through conversion, merging,
// rendering, and saving.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
	"github.com/couchcryptid/seatek-chart-etl/internal/observability"
	"github.com/couchcryptid/seatek-chart-etl/internal/render"
)

// ChartRenderer turns one job's merged frame into a PNG chart.
type ChartRenderer interface {
	Render(rows []domain.FrameRow, meta render.Meta) ([]byte, render.Stats, error)
}

// ArtifactWriter persists rendered charts under job-relative paths.
type ArtifactWriter interface {
	Exists(rel string) bool
	Write(rel string, data []byte) error
}

// RowSink receives each job's merged rows, for combined export.
type RowSink interface {
	AddFrames(riverMile float64, year int, sensor string, rows []domain.FrameRow)
}

// State names the stages a chart job moves through.
type State string

const (
	StatePending   State = "PENDING"
	StateConverted State = "CONVERTED"
	StateMerged    State = "MERGED"
	StateSkipped   State = "SKIPPED"
	StateRendered  State = "RENDERED"
	StateSaved     State = "SAVED"
	StateFailed    State = "FAILED"
)

// Job identifies one chart: a sensor's readings for one year at one
// river mile.
type Job struct {
	Dataset *domain.RiverMileDataset
	Year    int
	Sensor  string
}

// Path is the chart location relative to the output root.
func (j Job) Path() string {
	return fmt.Sprintf("RM_%.1f/RM_%.1f_Year_%d_%s.png",
		j.Dataset.RiverMile, j.Dataset.RiverMile, j.Year, j.Sensor)
}

// Options control job scheduling and per-job processing.
type Options struct {
	Workers      int
	SkipExisting bool
	Merge        domain.MergeOptions
	Navd         domain.NavdConstants
}

// Summary reports the outcome of one pipeline run.
type Summary struct {
	Jobs         int
	Generated    int
	AlreadySaved int
	Skipped      int
	Failed       int
	StartedAt    time.Time
	Elapsed      time.Duration
}

// Pipeline schedules chart jobs across a worker pool.
type Pipeline struct {
	renderer ChartRenderer
	writer   ArtifactWriter
	sink     RowSink
	logger   *slog.Logger
	metrics  *observability.Metrics
	opts     Options

	completed atomic.Int64
	total     atomic.Int64

	generated    atomic.Int64
	alreadySaved atomic.Int64
	skipped      atomic.Int64
	failed       atomic.Int64

	fatalOnce sync.Once
	fatalErr  error
}

// New creates a Pipeline. The sink may be nil when no combined export
// is requested.
func New(renderer ChartRenderer, writer ArtifactWriter, sink RowSink, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{
		renderer: renderer,
		writer:   writer,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

// Progress reports completed and total job counts for the current run.
func (p *Pipeline) Progress() (completed, total int) {
	return int(p.completed.Load()), int(p.total.Load())
}

// Jobs expands datasets into the full job list, ordered by dataset,
// then sensor, then year.
func Jobs(datasets []*domain.RiverMileDataset) []Job {
	var jobs []Job
	for _, d := range datasets {
		for _, sensor := range d.Sensors {
			for _, year := range d.Years() {
				jobs = append(jobs, Job{Dataset: d, Year: year, Sensor: sensor})
			}
		}
	}
	return jobs
}

// Run processes every job for the given datasets. A failed job is
// counted and logged without stopping the run; an unusable output
// directory aborts the run with an error. Cancelling the context stops
// scheduling new jobs.
func (p *Pipeline) Run(ctx context.Context, datasets []*domain.RiverMileDataset) (Summary, error) {
	jobs := Jobs(datasets)
	p.total.Store(int64(len(jobs)))
	p.completed.Store(0)

	start := clock.Now()
	p.logger.Info("pipeline started",
		"jobs", len(jobs),
		"datasets", len(datasets),
		"workers", p.opts.Workers,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan Job)
	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				p.runJob(job, cancel)
				p.completed.Add(1)
			}
		}()
	}

feed:
	for _, job := range jobs {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			break feed
		}
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			break feed
		case queue <- job:
		}
	}
	close(queue)
	wg.Wait()

	summary := Summary{
		Jobs:         len(jobs),
		Generated:    int(p.generated.Load()),
		AlreadySaved: int(p.alreadySaved.Load()),
		Skipped:      int(p.skipped.Load()),
		Failed:       int(p.failed.Load()),
		StartedAt:    start,
		Elapsed:      clock.Since(start),
	}
	p.logger.Info("pipeline finished",
		"generated", summary.Generated,
		"already_saved", summary.AlreadySaved,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed,
	)
	return summary, p.fatalErr
}

// runJob drives one job through its states. A path setup failure marks
// the run fatal and cancels further scheduling.
func (p *Pipeline) runJob(job Job, cancel context.CancelFunc) {
	start := clock.Now()
	log := p.logger.With(
		"river_mile", job.Dataset.RiverMile,
		"year", job.Year,
		"sensor", job.Sensor,
	)

	rel := job.Path()
	if p.opts.SkipExisting && p.writer.Exists(rel) {
		p.alreadySaved.Add(1)
		p.metrics.ChartsAlreadySaved.Inc()
		log.Debug("chart already saved", "path", rel)
		return
	}

	state := StatePending

	if err := job.Dataset.CheckSensorNumeric(job.Sensor); err != nil {
		p.failJob(log, state, err)
		return
	}

	converted := domain.Convert(job.Dataset.YearRows(job.Year), job.Sensor, job.Dataset.YOffset, p.opts.Navd)
	state = StateConverted

	merged, procMetrics := domain.Merge(converted, p.opts.Merge)
	state = StateMerged
	log.Debug("streams merged",
		"original_rows", procMetrics.OriginalRows,
		"invalid_rows", procMetrics.InvalidRows,
		"zero_values", procMetrics.ZeroValues,
		"null_values", procMetrics.NullValues,
		"valid_rows", procMetrics.ValidRows,
	)

	meta := render.Meta{RiverMile: job.Dataset.RiverMile, Year: job.Year, Sensor: job.Sensor}
	png, stats, err := p.renderer.Render(merged, meta)
	if err != nil {
		var insufficient *domain.InsufficientDataError
		if errors.As(err, &insufficient) {
			p.skipped.Add(1)
			p.metrics.ChartsSkipped.Inc()
			log.Warn("skipping chart, not enough merged rows", "rows", insufficient.Rows)
			return
		}
		p.failJob(log, state, err)
		return
	}
	state = StateRendered

	if err := p.writer.Write(rel, png); err != nil {
		p.failJob(log, state, err)
		var pathErr *domain.PathSetupError
		if errors.As(err, &pathErr) {
			p.fatalOnce.Do(func() {
				p.fatalErr = err
				cancel()
			})
		}
		return
	}
	state = StateSaved

	if p.sink != nil {
		p.sink.AddFrames(job.Dataset.RiverMile, job.Year, job.Sensor, merged)
	}

	p.generated.Add(1)
	p.metrics.ChartsGenerated.Inc()
	p.metrics.JobDuration.Observe(clock.Since(start).Seconds())
	log.Info("chart saved",
		"path", rel,
		"state", state,
		"rows", stats.N,
		"correlation", stats.Correlation,
		"interpretation", stats.Interpretation,
	)
}

func (p *Pipeline) failJob(log *slog.Logger, state State, err error) {
	p.failed.Add(1)
	p.metrics.ChartsFailed.Inc()
	log.Error("chart job failed", "state", state, "error", err)
}

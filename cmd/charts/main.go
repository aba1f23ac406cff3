// Command charts generates sensor-vs-hydrograph charts from the survey
// workbooks: one PNG per river mile, year, and sensor, with NAVD88
// elevation conversion and correlation annotations.
//
// Usage:
//
//	go run ./cmd/charts \
//	  -data-root . \
//	  -output output/charts
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/seatek-chart-etl/internal/adapter/excel"
	"github.com/couchcryptid/seatek-chart-etl/internal/adapter/export"
	httpadapter "github.com/couchcryptid/seatek-chart-etl/internal/adapter/http"
	"github.com/couchcryptid/seatek-chart-etl/internal/config"
	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
	"github.com/couchcryptid/seatek-chart-etl/internal/observability"
	"github.com/couchcryptid/seatek-chart-etl/internal/pipeline"
	"github.com/couchcryptid/seatek-chart-etl/internal/render"
)

func main() {
	// Optional .env for local runs; environment always wins.
	_ = godotenv.Load()

	dataRoot := flag.String("data-root", "", "base directory for default input and output paths (overrides DATA_ROOT)")
	summaryFile := flag.String("summary", "", "path to the summary workbook (overrides SUMMARY_FILE)")
	dataFile := flag.String("data", "", "path to the sensor data workbook (overrides DATA_FILE)")
	outputDir := flag.String("output", "", "directory for generated charts (overrides OUTPUT_DIR)")
	flag.Parse()

	applyFlagOverrides(*dataRoot, *summaryFile, *dataFile, *outputDir)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, metrics); err != nil {
		logger.Error("chart run failed", "error", err)
		os.Exit(1)
	}
}

// applyFlagOverrides maps non-empty CLI flags onto the environment the
// config loader reads, so flags win over both .env and inherited env.
func applyFlagOverrides(dataRoot, summaryFile, dataFile, outputDir string) {
	for env, v := range map[string]string{
		"DATA_ROOT":    dataRoot,
		"SUMMARY_FILE": summaryFile,
		"DATA_FILE":    dataFile,
		"OUTPUT_DIR":   outputDir,
	} {
		if v != "" {
			os.Setenv(env, v)
		}
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	entries, err := excel.LoadSummary(cfg.SummaryFile, logger)
	if err != nil {
		return fmt.Errorf("load summary workbook: %w", err)
	}
	logger.Info("summary loaded", "file", cfg.SummaryFile, "river_miles", len(entries))

	datasets, err := excel.LoadDatasets(cfg.DataFile, excel.Offsets(entries), logger)
	if err != nil {
		return fmt.Errorf("load data workbook: %w", err)
	}

	writer, err := pipeline.NewFSWriter(cfg.OutputDir)
	if err != nil {
		return err
	}

	var sink pipeline.RowSink
	var collector *export.Collector
	if cfg.ExportCombined {
		collector = export.NewCollector()
		sink = collector
	}

	renderCfg := render.DefaultConfig()
	renderCfg.Width = cfg.ChartWidth
	renderCfg.Height = cfg.ChartHeight

	p := pipeline.New(
		render.New(renderCfg),
		writer,
		sink,
		logger,
		metrics,
		pipeline.Options{
			Workers:      cfg.Workers,
			SkipExisting: cfg.SkipExisting,
			Merge:        domain.MergeOptions{ZeroFillHydrograph: cfg.HydrographZeroFill},
			Navd:         cfg.Navd,
		},
	)

	srv := startMetricsServer(cfg, p, logger)

	summary, runErr := p.Run(ctx, datasets)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if collector != nil && collector.Len() > 0 {
		if err := writeExport(collector, cfg, logger); err != nil {
			logger.Error("combined export failed", "error", err)
			runErr = errors.Join(runErr, err)
		}
	}

	printSummary(summary)

	if runErr != nil {
		return runErr
	}
	if cfg.Strict && summary.Failed > 0 {
		return fmt.Errorf("%d chart jobs failed", summary.Failed)
	}
	return nil
}

// startMetricsServer serves /healthz /readyz /progress /metrics while
// the run is in flight. Returns nil when METRICS_ADDR is unset.
func startMetricsServer(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) *httpadapter.Server {
	if cfg.MetricsAddr == "" {
		return nil
	}
	srv := httpadapter.NewServer(cfg.MetricsAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	return srv
}

func writeExport(collector *export.Collector, cfg *config.Config, logger *slog.Logger) error {
	name := "combined_data." + cfg.ExportFormat
	path := filepath.Join(cfg.OutputDir, name)

	var err error
	switch cfg.ExportFormat {
	case "xlsx":
		err = collector.WriteXLSX(path)
	default:
		err = collector.WriteCSV(path)
	}
	if err != nil {
		return err
	}
	logger.Info("combined export written", "path", path, "rows", collector.Len())
	return nil
}

func printSummary(s pipeline.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Jobs", "Generated", "Already Saved", "Skipped", "Failed", "Elapsed"})
	t.AppendRow(table.Row{s.Jobs, s.Generated, s.AlreadySaved, s.Skipped, s.Failed, s.Elapsed.Round(time.Millisecond)})
	t.SetStyle(table.StyleLight)
	t.Render()
}

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.DataRoot)
	assert.Equal(t, filepath.Join(".", "data", "raw", "Data_Summary.xlsx"), cfg.SummaryFile)
	assert.Equal(t, filepath.Join(".", "data", "raw", "Hydrograph_Seatek_Data.xlsx"), cfg.DataFile)
	assert.Equal(t, filepath.Join(".", "output", "charts"), cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 1, cfg.Workers)
	assert.True(t, cfg.SkipExisting)
	assert.True(t, cfg.HydrographZeroFill)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.ExportCombined)
	assert.Equal(t, "csv", cfg.ExportFormat)
	assert.Equal(t, 1.9, cfg.Navd.OffsetA)
	assert.Equal(t, 0.32, cfg.Navd.OffsetB)
	assert.InDelta(t, 400.0/30.48, cfg.Navd.ScaleFactor, 1e-12)
	assert.Equal(t, 1400, cfg.ChartWidth)
	assert.Equal(t, 800, cfg.ChartHeight)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_ROOT", "/srv/survey")
	t.Setenv("SUMMARY_FILE", "/srv/survey/summary.xlsx")
	t.Setenv("DATA_FILE", "/srv/survey/readings.xlsx")
	t.Setenv("OUTPUT_DIR", "/srv/survey/out")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("WORKERS", "4")
	t.Setenv("SKIP_EXISTING", "false")
	t.Setenv("HYDROGRAPH_ZERO_FILL", "false")
	t.Setenv("STRICT", "true")
	t.Setenv("EXPORT_COMBINED", "true")
	t.Setenv("EXPORT_FORMAT", "xlsx")
	t.Setenv("NAVD_OFFSET_A", "2.1")
	t.Setenv("NAVD_OFFSET_B", "0.4")
	t.Setenv("NAVD_SCALE_FACTOR", "12.5")
	t.Setenv("CHART_WIDTH", "2048")
	t.Setenv("CHART_HEIGHT", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/survey", cfg.DataRoot)
	assert.Equal(t, "/srv/survey/summary.xlsx", cfg.SummaryFile)
	assert.Equal(t, "/srv/survey/readings.xlsx", cfg.DataFile)
	assert.Equal(t, "/srv/survey/out", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 4, cfg.Workers)
	assert.False(t, cfg.SkipExisting)
	assert.False(t, cfg.HydrographZeroFill)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.ExportCombined)
	assert.Equal(t, "xlsx", cfg.ExportFormat)
	assert.Equal(t, 2.1, cfg.Navd.OffsetA)
	assert.Equal(t, 0.4, cfg.Navd.OffsetB)
	assert.Equal(t, 12.5, cfg.Navd.ScaleFactor)
	assert.Equal(t, 2048, cfg.ChartWidth)
	assert.Equal(t, 1024, cfg.ChartHeight)
}

func TestLoad_PathsFollowDataRoot(t *testing.T) {
	t.Setenv("DATA_ROOT", "/river")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/river", "data", "raw", "Data_Summary.xlsx"), cfg.SummaryFile)
	assert.Equal(t, filepath.Join("/river", "output", "charts"), cfg.OutputDir)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("WORKERS", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKERS")
}

func TestLoad_WorkersTooLarge(t *testing.T) {
	t.Setenv("WORKERS", "1000")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKERS")
}

func TestLoad_InvalidExportFormat(t *testing.T) {
	t.Setenv("EXPORT_FORMAT", "parquet")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPORT_FORMAT")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_InvalidScaleFactor(t *testing.T) {
	t.Setenv("NAVD_SCALE_FACTOR", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAVD_SCALE_FACTOR")
}

func TestLoad_NonNumericNavdConstant(t *testing.T) {
	t.Setenv("NAVD_OFFSET_A", "abc")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAVD_OFFSET_A")
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/seatek-chart-etl/internal/domain"
)

// Default workbook locations relative to the data root, matching the survey
// team's directory layout.
const (
	defaultSummaryName = "Data_Summary.xlsx"
	defaultDataName    = "Hydrograph_Seatek_Data.xlsx"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	DataRoot    string
	SummaryFile string
	DataFile    string
	OutputDir   string

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the /healthz /readyz /metrics server when set.
	MetricsAddr     string
	ShutdownTimeout time.Duration

	Workers            int
	SkipExisting       bool
	HydrographZeroFill bool
	Strict             bool

	ExportCombined bool
	ExportFormat   string // "csv" or "xlsx"

	Navd domain.NavdConstants

	ChartWidth  int
	ChartHeight int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	dataRoot := envOrDefault("DATA_ROOT", ".")

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	workers, err := parseInt("WORKERS", 1, 1, 64)
	if err != nil {
		return nil, err
	}

	chartWidth, err := parseInt("CHART_WIDTH", 1400, 320, 8192)
	if err != nil {
		return nil, err
	}
	chartHeight, err := parseInt("CHART_HEIGHT", 800, 240, 8192)
	if err != nil {
		return nil, err
	}

	navd, err := parseNavdConstants()
	if err != nil {
		return nil, err
	}

	exportFormat := envOrDefault("EXPORT_FORMAT", "csv")
	if exportFormat != "csv" && exportFormat != "xlsx" {
		return nil, fmt.Errorf("invalid EXPORT_FORMAT %q: must be csv or xlsx", exportFormat)
	}

	logFormat := envOrDefault("LOG_FORMAT", "json")
	if logFormat != "json" && logFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", logFormat)
	}

	cfg := &Config{
		DataRoot:    dataRoot,
		SummaryFile: envOrDefault("SUMMARY_FILE", filepath.Join(dataRoot, "data", "raw", defaultSummaryName)),
		DataFile:    envOrDefault("DATA_FILE", filepath.Join(dataRoot, "data", "raw", defaultDataName)),
		OutputDir:   envOrDefault("OUTPUT_DIR", filepath.Join(dataRoot, "output", "charts")),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: logFormat,

		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		Workers:            workers,
		SkipExisting:       parseBool("SKIP_EXISTING", true),
		HydrographZeroFill: parseBool("HYDROGRAPH_ZERO_FILL", true),
		Strict:             parseBool("STRICT", false),

		ExportCombined: parseBool("EXPORT_COMBINED", false),
		ExportFormat:   exportFormat,

		Navd: navd,

		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,
	}

	return cfg, nil
}

func parseNavdConstants() (domain.NavdConstants, error) {
	c := domain.DefaultNavdConstants()

	var err error
	if c.OffsetA, err = parseFloat("NAVD_OFFSET_A", c.OffsetA); err != nil {
		return c, err
	}
	if c.OffsetB, err = parseFloat("NAVD_OFFSET_B", c.OffsetB); err != nil {
		return c, err
	}
	if c.ScaleFactor, err = parseFloat("NAVD_SCALE_FACTOR", c.ScaleFactor); err != nil {
		return c, err
	}
	if c.ScaleFactor <= 0 {
		return c, errors.New("invalid NAVD_SCALE_FACTOR: must be positive")
	}
	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return fallback
	}
}

func parseInt(key string, fallback, min, max int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("invalid %s %q: must be an integer in [%d, %d]", key, s, min, max)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", key, s)
	}
	return f, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, s)
	}
	return d, nil
}

package domain

import (
	"math"
	"strings"
)

// FrameRow is one timestamp of a converted or merged analysis frame.
// Sensor holds the NAVD88 elevation for the job's sensor and Hydrograph the
// lagged discharge; either is NaN where that stream has no sample.
type FrameRow struct {
	TimeSeconds float64
	TimeMinutes float64
	Sensor      float64
	Hydrograph  float64
}

// IsMissing reports whether v represents an absent reading (NaN or ±Inf).
func IsMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// FilterValidNumeric returns a new slice keeping only entries that are
// present, finite, and strictly positive. Order is preserved and invalid
// entries are removed, not replaced. Idempotent: filtering a filtered
// slice is a no-op.
func FilterValidNumeric(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if IsMissing(v) || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// RequireColumns returns a *SchemaError naming every required column absent
// from have, or nil when all are present. The context string identifies the
// table being validated (e.g. "summary data", "sheet RM_54.0").
func RequireColumns(have, required []string, context string) error {
	present := make(map[string]struct{}, len(have))
	for _, c := range have {
		present[c] = struct{}{}
	}

	var missing []string
	for _, c := range required {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Context: context, Missing: missing}
	}
	return nil
}

// FormatSensorLabel turns a sensor column name into a display label:
// underscores become spaces and each word is title-cased, so "Sensor_1"
// renders as "Sensor 1".
func FormatSensorLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

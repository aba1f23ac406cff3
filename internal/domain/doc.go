// Package domain models river-survey Seatek sensor and hydrograph data.
//
// # Data Source
//
// Readings come from two survey workbooks. A summary sheet lists every
// surveyed river mile with its sensor count and elevation correction:
//
//	River_Mile | Y_Offset | Num_Sensors
//
// A data workbook holds one sheet per river mile, named "RM_<mile>"
// (e.g. "RM_54.0"), carrying a time series of raw Seatek readings and a
// time-lagged hydrograph discharge:
//
//	Time (Seconds) | Year | Hydrograph (Lagged) | Sensor_1 | Sensor_2 | ...
//
// Year is a logical survey index, not a calendar year. Sensor cells are
// raw Seatek distances in millimetres; empty or non-numeric cells mean the
// sensor produced no reading at that timestamp.
//
// # NAVD88 Conversion
//
// Raw Seatek readings are converted to NAVD88 elevations (feet) with a
// fixed linear formula plus a per-river-mile additive correction:
//
//	elevation = -(raw + OffsetA - OffsetB) * ScaleFactor + yOffset
//
// OffsetA (1.9) and OffsetB (0.32) are instrument mounting offsets and
// ScaleFactor (400/30.48) converts instrument units to feet. The sign flip
// reflects that Seatek sensors measure distance down to the sediment
// surface, so larger raw readings mean lower elevations. See [Convert].
//
// # Stream Merging
//
// The sensor stream and the hydrograph stream are cleaned independently
// (non-missing, non-zero) and then aligned with a full outer join on
// Time (Seconds), so every valid reading from either stream survives even
// when the other stream has no sample at that timestamp. See [Merge].
//
// # Correlation
//
// Sediment response is correlated against discharge with a Pearson
// coefficient over jointly present pairs. Zero variance in either series
// reports 0.0 with an explanatory label instead of failing. See [Correlate].
//
// # Missing Values
//
// Throughout the package a missing float is represented as NaN, mirroring
// how the survey spreadsheets leave cells blank. Helpers treat NaN and
// ±Inf as absent; they are filtered, never fabricated.
package domain

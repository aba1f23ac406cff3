package domain

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from an input table. It is
// fatal to the job or sheet being validated, never to the whole run.
type SchemaError struct {
	Context string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns in %s: [%s]", e.Context, strings.Join(e.Missing, ", "))
}

// ConversionError reports a sensor column whose cells could not be coerced
// to numbers at all. It fails every job for that column.
type ConversionError struct {
	Column string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert column %s: %s", e.Column, e.Reason)
}

// InsufficientDataError marks a merged frame with fewer than two aligned
// rows. Callers treat it as a skip, not a failure.
type InsufficientDataError struct {
	Rows int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d aligned rows, need at least 2", e.Rows)
}

// VisualizationError wraps a failure while building or encoding a chart.
type VisualizationError struct {
	Op  string
	Err error
}

func (e *VisualizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("visualization: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("visualization: %s", e.Op)
}

func (e *VisualizationError) Unwrap() error { return e.Err }

// PathSetupError reports an output directory that could not be created.
// Nothing can be written, so it is fatal to the whole run.
type PathSetupError struct {
	Path string
	Err  error
}

func (e *PathSetupError) Error() string {
	return fmt.Sprintf("cannot set up output path %s: %v", e.Path, e.Err)
}

func (e *PathSetupError) Unwrap() error { return e.Err }

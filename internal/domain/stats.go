package domain

import "math"

// Stats holds descriptive statistics over the finite values of a series.
type Stats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
	N    int
}

// Describe computes mean, population standard deviation, min, and max over
// the finite values of the input. Missing entries are ignored. With no
// finite values every field is NaN and N is 0.
func Describe(values []float64) Stats {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsMissing(v) {
			finite = append(finite, v)
		}
	}

	if len(finite) == 0 {
		nan := math.NaN()
		return Stats{Mean: nan, Std: nan, Min: nan, Max: nan}
	}

	sum := 0.0
	min, max := finite[0], finite[0]
	for _, v := range finite {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(finite))

	var sq float64
	for _, v := range finite {
		d := v - mean
		sq += d * d
	}

	return Stats{
		Mean: mean,
		Std:  math.Sqrt(sq / float64(len(finite))),
		Min:  min,
		Max:  max,
		N:    len(finite),
	}
}

// NoCorrelationLabel is reported when either series has no variance and a
// Pearson coefficient would divide by zero.
const NoCorrelationLabel = "No correlation (insufficient variation in data)"

// Correlate computes the Pearson correlation coefficient between two
// row-aligned series over the jointly present pairs, with its qualitative
// interpretation. When fewer than two joint pairs exist or either series
// has no variance it reports 0.0 and [NoCorrelationLabel] rather than
// failing with a division error. The coefficient is always in [-1, 1].
func Correlate(x, y []float64) (float64, string) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	var xs, ys []float64
	for i := 0; i < n; i++ {
		if IsMissing(x[i]) || IsMissing(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	if len(xs) < 2 {
		return 0.0, NoCorrelationLabel
	}

	var xMean, yMean float64
	for i := range xs {
		xMean += xs[i]
		yMean += ys[i]
	}
	xMean /= float64(len(xs))
	yMean /= float64(len(ys))

	var num, xDev, yDev float64
	for i := range xs {
		dx := xs[i] - xMean
		dy := ys[i] - yMean
		num += dx * dy
		xDev += dx * dx
		yDev += dy * dy
	}

	denom := math.Sqrt(xDev * yDev)
	if denom == 0 {
		return 0.0, NoCorrelationLabel
	}

	r := num / denom
	// Guard against float drift pushing |r| past 1.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, InterpretCorrelation(r)
}

// InterpretCorrelation maps a Pearson coefficient to the survey team's
// qualitative wording, e.g. "Very strong positive relationship".
func InterpretCorrelation(r float64) string {
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}

	abs := math.Abs(r)
	var strength string
	switch {
	case abs >= 0.9:
		strength = "Very strong"
	case abs >= 0.7:
		strength = "Strong"
	case abs >= 0.5:
		strength = "Moderate"
	case abs >= 0.3:
		strength = "Weak"
	default:
		strength = "Very weak or no"
	}

	return strength + " " + direction + " relationship"
}

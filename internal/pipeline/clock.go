package pipeline

import "github.com/jonboulle/clockwork"

// clock times pipeline runs and individual jobs. Tests freeze it via
// SetClock for deterministic summaries.
var clock = clockwork.NewRealClock()

// SetClock swaps the run time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

package slots

import (
	"iter"
	"time"

	"github.com/maxiG180/trimminflow/internal/domain/appointment"
)

// Generate yields candidate start times from open.Start in granularity steps,
// stopping once start + duration would pass open.End. Non-positive inputs and
// durations longer than the interval yield nothing.
func Generate(open appointment.Interval, durationMinutes, granularityMinutes int) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if durationMinutes <= 0 || granularityMinutes <= 0 || open.Empty() {
			return
		}

		duration := time.Duration(durationMinutes) * time.Minute
		step := time.Duration(granularityMinutes) * time.Minute

		for start := open.Start; !start.Add(duration).After(open.End); start = start.Add(step) {
			if !yield(start) {
				return
			}
		}
	}
}

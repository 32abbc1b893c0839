package timezone

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout = "2006-01-02"
	HMLayout   = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

// Clock is the source of "now" for availability and booking decisions.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseHM parses a local HH:mm clock time into hour and minute.
func ParseHM(hm string) (int, int, error) {
	t, err := time.Parse(HMLayout, hm)
	if err != nil {
		return 0, 0, fmt.Errorf("timezone: invalid clock time %q: %w", hm, err)
	}
	return t.Hour(), t.Minute(), nil
}

// ResolveWallClock converts a local wall clock reading on a civil date into an instant.
//
// Among the UTC offsets the zone uses around that date, every offset yields one
// candidate instant. Candidates that read back as the requested wall clock are valid;
// the latest valid candidate wins, so an ambiguous fall-back time maps to its second
// occurrence. When no candidate is valid the wall clock falls in a spring-forward gap and
// the latest candidate wins, which moves the time forward by the length of the gap.
func ResolveWallClock(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	wall := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)

	var (
		bestValid time.Time
		bestAny   time.Time
		seen      = map[int]bool{}
	)
	for _, around := range []time.Time{wall.Add(-24 * time.Hour), wall, wall.Add(24 * time.Hour)} {
		_, offset := around.In(loc).Zone()
		if seen[offset] {
			continue
		}
		seen[offset] = true

		candidate := wall.Add(-time.Duration(offset) * time.Second)
		if candidate.After(bestAny) || bestAny.IsZero() {
			bestAny = candidate
		}
		if readsAs(candidate.In(loc), wall) && (bestValid.IsZero() || candidate.After(bestValid)) {
			bestValid = candidate
		}
	}

	if !bestValid.IsZero() {
		return bestValid.UTC()
	}
	return bestAny.UTC()
}

func readsAs(local, wall time.Time) bool {
	y, m, d := local.Date()
	wy, wm, wd := wall.Date()
	return y == wy && m == wm && d == wd &&
		local.Hour() == wall.Hour() && local.Minute() == wall.Minute()
}

package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

var ErrInvalidHours = errors.New("schedule: invalid working hours")

// DayHours is one weekday entry with local HH:mm open and close times.
type DayHours struct {
	IsOpen bool
	Open   string
	Close  string
}

// Week holds at most one entry per weekday. A missing weekday means "no entry".
type Week map[time.Weekday]DayHours

// WeekFromRecords builds a Week from stored rows. Rows with an out of range weekday are ignored.
func WeekFromRecords(rows []models.WorkingHours) Week {
	w := make(Week, len(rows))
	for _, r := range rows {
		if r.Weekday < 0 || r.Weekday > 6 {
			continue
		}
		w[time.Weekday(r.Weekday)] = DayHours{
			IsOpen: r.IsOpen,
			Open:   r.OpenTime,
			Close:  r.CloseTime,
		}
	}
	return w
}

// Validate enforces open < close on open days.
func (d DayHours) Validate() error {
	if !d.IsOpen {
		return nil
	}

	oh, om, err := timezone.ParseHM(d.Open)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}
	ch, cm, err := timezone.ParseHM(d.Close)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}
	if oh*60+om >= ch*60+cm {
		return fmt.Errorf("%w: open %s not before close %s", ErrInvalidHours, d.Open, d.Close)
	}
	return nil
}

// Resolve returns the open interval of a barber on the civil date of day.
//
// The barber's entry for the weekday wins when present; otherwise the shop's entry
// applies. A closed or missing entry yields ok == false. Local times are converted
// through loc with timezone.ResolveWallClock, so transition days produce a deterministic
// interval; if the conversion collapses the interval it is reported as closed.
func Resolve(loc *time.Location, shop, barber Week, day time.Time) (appointment.Interval, bool, error) {
	y, m, d := day.Date()
	weekday := time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Weekday()

	hours, found := barber[weekday]
	if !found {
		hours, found = shop[weekday]
	}
	if !found || !hours.IsOpen {
		return appointment.Interval{}, false, nil
	}
	if err := hours.Validate(); err != nil {
		return appointment.Interval{}, false, err
	}

	oh, om, _ := timezone.ParseHM(hours.Open)
	ch, cm, _ := timezone.ParseHM(hours.Close)

	iv := appointment.Interval{
		Start: timezone.ResolveWallClock(y, m, d, oh, om, loc),
		End:   timezone.ResolveWallClock(y, m, d, ch, cm, loc),
	}
	if iv.Empty() {
		return appointment.Interval{}, false, nil
	}
	return iv, true, nil
}

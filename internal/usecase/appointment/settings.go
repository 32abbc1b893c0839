package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/maxiG180/trimminflow/internal/config"
	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

const (
	MinGranularityMinutes = 5
	MaxGranularityMinutes = 240
)

// Settings are the engine knobs shared by the availability and booking use cases.
type Settings struct {
	GranularityMinutes     int
	DefaultLeadTimeMinutes int
	MaxRangeDays           int
	StoreTimeout           time.Duration
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		GranularityMinutes:     cfg.SlotGranularityMinutes,
		DefaultLeadTimeMinutes: cfg.DefaultLeadTimeMinutes,
		MaxRangeDays:           cfg.MaxRangeDays,
		StoreTimeout:           cfg.StoreTimeout,
	}.normalized()
}

func (s Settings) normalized() Settings {
	if s.GranularityMinutes <= 0 {
		s.GranularityMinutes = 30
	}
	if s.DefaultLeadTimeMinutes <= 0 {
		s.DefaultLeadTimeMinutes = 120
	}
	if s.MaxRangeDays <= 0 {
		s.MaxRangeDays = 31
	}
	if s.StoreTimeout <= 0 {
		s.StoreTimeout = 5 * time.Second
	}
	return s
}

// leadTime is the shop's minimum advance, falling back to the configured default.
func (s Settings) leadTime(shop *models.Barbershop) time.Duration {
	minutes := shop.MinAdvanceMinutes
	if minutes <= 0 {
		minutes = s.DefaultLeadTimeMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (s Settings) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.StoreTimeout)
}

// lookupErr turns a directory failure into a business error: unknown records are
// reported with code, anything else is a store failure.
func lookupErr(err error, notFound error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return notFound
	}
	return httperr.StoreUnavailable(err)
}

// dateRange parses inclusive local dates and returns the civil days between them.
func dateRange(from, to string, loc *time.Location, maxDays int) ([]time.Time, error) {
	start, err := timezone.ParseDate(from, loc)
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}
	end := start
	if to != "" {
		if end, err = timezone.ParseDate(to, loc); err != nil {
			return nil, httperr.Validation("invalid_date")
		}
	}

	first := civil(start)
	last := civil(end)
	if last.Before(first) {
		return nil, httperr.Validation("invalid_date_range")
	}
	if days := int(last.Sub(first).Hours()/24) + 1; days > maxDays {
		return nil, httperr.Validation("date_range_too_large")
	}

	var out []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out, nil
}

// civil drops the zone so day arithmetic is free of DST effects.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// localMidnight is the first instant of the civil date in loc.
func localMidnight(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return timezone.ResolveWallClock(y, m, d, 0, 0, loc)
}

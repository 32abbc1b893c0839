package appointment

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/domain/schedule"
	"github.com/maxiG180/trimminflow/internal/domain/slots"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/observability/metrics"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type FindSlotsInput struct {
	BarbershopID uint
	BarberID     uint // 0 means every active barber
	ServiceID    uint

	// Inclusive local dates, YYYY-MM-DD. An empty To means a single day.
	From string
	To   string

	GranularityMinutes int // 0 uses the configured default
}

type FindSlotsOutput struct {
	Timezone string        `json:"timezone"`
	Slots    []domain.Slot `json:"slots"`
}

// ======================================================
// USE CASE
// ======================================================

// FindSlots is the availability engine. It only reads; identical inputs over an
// unchanged calendar give identical output.
type FindSlots struct {
	dir      domain.Directory
	cal      domain.CalendarStore
	clock    timezone.Clock
	settings Settings
	metrics  *metrics.BookingMetrics
	logger   *slog.Logger
}

func NewFindSlots(
	dir domain.Directory,
	cal domain.CalendarStore,
	clock timezone.Clock,
	settings Settings,
	m *metrics.BookingMetrics,
	logger *slog.Logger,
) *FindSlots {
	if logger == nil {
		logger = slog.Default()
	}
	settings = settings.normalized()
	return &FindSlots{
		dir:      bounded(dir, settings.StoreTimeout),
		cal:      cal,
		clock:    clock,
		settings: settings,
		metrics:  m,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *FindSlots) Execute(
	ctx context.Context,
	in FindSlotsInput,
) (*FindSlotsOutput, error) {

	began := time.Now()

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	if in.ServiceID == 0 {
		return nil, httperr.Validation("service_required")
	}

	granularity := in.GranularityMinutes
	if granularity == 0 {
		granularity = uc.settings.GranularityMinutes
	}
	if granularity < MinGranularityMinutes || granularity > MaxGranularityMinutes {
		return nil, httperr.Validation("invalid_granularity")
	}

	shop, err := uc.dir.GetBarbershop(ctx, in.BarbershopID)
	if err != nil {
		return nil, lookupErr(err, httperr.NotFound("barbershop_not_found"))
	}
	loc := timezone.Location(shop.Timezone)

	days, err := dateRange(in.From, in.To, loc, uc.settings.MaxRangeDays)
	if err != nil {
		return nil, err
	}

	svc, err := uc.dir.GetService(ctx, shop.ID, in.ServiceID)
	if err != nil {
		return nil, lookupErr(err, httperr.Validation("service_not_found"))
	}
	if !svc.Active {
		return nil, httperr.Validation("service_not_found")
	}
	if svc.DurationMinutes <= 0 {
		return nil, httperr.Validation("invalid_service_duration")
	}

	barbers, err := uc.barbers(ctx, shop.ID, in.BarberID)
	if err != nil {
		return nil, err
	}

	shopRows, err := uc.dir.ShopHours(ctx, shop.ID)
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}
	shopWeek := schedule.WeekFromRecords(shopRows)

	// --------------------------------------------------
	// Slots per barber per day
	// --------------------------------------------------
	earliest := uc.clock.Now().Add(uc.settings.leadTime(shop))
	duration := time.Duration(svc.DurationMinutes) * time.Minute

	out := []domain.Slot{}
	for _, b := range barbers {
		rows, err := uc.dir.BarberHours(ctx, shop.ID, b.ID)
		if err != nil {
			return nil, httperr.StoreUnavailable(err)
		}
		barberWeek := schedule.WeekFromRecords(rows)

		for _, day := range days {
			open, ok, err := schedule.Resolve(loc, shopWeek, barberWeek, day)
			if err != nil {
				return nil, fmt.Errorf("hours of barber %d on %s: %w", b.ID, day.Format(timezone.DateLayout), err)
			}
			if !ok {
				continue
			}

			occupied, err := uc.occupied(ctx, b.ID, open)
			if err != nil {
				return nil, httperr.StoreUnavailable(err)
			}

			candidates := slots.Generate(open, svc.DurationMinutes, granularity)
			for start := range freeStarts(candidates, duration, occupied, earliest) {
				out = append(out, domain.Slot{
					BarberID:  b.ID,
					ServiceID: svc.ID,
					Start:     start,
					End:       start.Add(duration),
				})
			}
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Slot) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return int(a.BarberID) - int(b.BarberID)
	})

	uc.metrics.ObserveAvailability(time.Since(began).Seconds(), len(out))
	uc.logger.Debug("availability computed",
		"barbershop_id", shop.ID,
		"service_id", svc.ID,
		"barbers", len(barbers),
		"days", len(days),
		"slots", len(out),
	)

	return &FindSlotsOutput{Timezone: loc.String(), Slots: out}, nil
}

func (uc *FindSlots) barbers(ctx context.Context, shopID, barberID uint) ([]models.Barber, error) {
	if barberID == 0 {
		list, err := uc.dir.ListActiveBarbers(ctx, shopID)
		if err != nil {
			return nil, httperr.StoreUnavailable(err)
		}
		return list, nil
	}

	b, err := uc.dir.GetBarber(ctx, shopID, barberID)
	if err != nil {
		return nil, lookupErr(err, httperr.Validation("barber_not_found"))
	}
	if !b.Active {
		return nil, httperr.Validation("barber_not_found")
	}
	return []models.Barber{*b}, nil
}

func (uc *FindSlots) occupied(ctx context.Context, barberID uint, window domain.Interval) ([]domain.Interval, error) {
	ctx, cancel := uc.settings.storeContext(ctx)
	defer cancel()

	occupied, err := uc.cal.OccupiedIntervals(ctx, barberID, window)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(occupied, func(a, b domain.Interval) int { return a.Start.Compare(b.Start) })
	return occupied, nil
}

// freeStarts keeps candidates that start no earlier than earliest and whose
// [start, start+duration) overlaps nothing in occupied. occupied must be sorted by
// start; candidates ascend, so the scan cursor only moves forward.
func freeStarts(
	candidates iter.Seq[time.Time],
	duration time.Duration,
	occupied []domain.Interval,
	earliest time.Time,
) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		cursor := 0
		for start := range candidates {
			if start.Before(earliest) {
				continue
			}
			slot := domain.NewInterval(start, duration)

			for cursor < len(occupied) && !occupied[cursor].End.After(slot.Start) {
				cursor++
			}

			free := true
			for j := cursor; j < len(occupied) && occupied[j].Start.Before(slot.End); j++ {
				if occupied[j].Overlaps(slot) {
					free = false
					break
				}
			}
			if free && !yield(start) {
				return
			}
		}
	}
}

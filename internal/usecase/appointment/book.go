package appointment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/maxiG180/trimminflow/internal/audit"
	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/domain/schedule"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/observability/metrics"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookInput struct {
	BarbershopID uint
	BarberID     uint
	ServiceID    uint

	// Start is the chosen instant. When zero, Date (YYYY-MM-DD) and Time (HH:mm) are
	// read as the shop's local wall clock.
	Start time.Time
	Date  string
	Time  string

	Customer domain.Customer
	Notes    string

	// Confirmed books straight into confirmed status; used by the shop's own staff.
	Confirmed bool
	ActorID   *uint
}

// BookResult carries what a confirmation view needs.
type BookResult struct {
	Appointment *models.Appointment `json:"appointment"`
	BarberName  string              `json:"barber_name"`
	ServiceName string              `json:"service_name"`
	LocalDate   string              `json:"local_date"`
	LocalTime   string              `json:"local_time"`
	Timezone    string              `json:"timezone"`
}

// ======================================================
// USE CASE
// ======================================================

// Book is the only path that creates appointments.
type Book struct {
	dir      domain.Directory
	cal      domain.CalendarStore
	clock    timezone.Clock
	settings Settings
	audit    *audit.Dispatcher
	metrics  *metrics.BookingMetrics
	logger   *slog.Logger
}

func NewBook(
	dir domain.Directory,
	cal domain.CalendarStore,
	clock timezone.Clock,
	settings Settings,
	auditor *audit.Dispatcher,
	m *metrics.BookingMetrics,
	logger *slog.Logger,
) *Book {
	if logger == nil {
		logger = slog.Default()
	}
	settings = settings.normalized()
	return &Book{
		dir:      bounded(dir, settings.StoreTimeout),
		cal:      cal,
		clock:    clock,
		settings: settings,
		audit:    auditor,
		metrics:  m,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Book) Execute(
	ctx context.Context,
	in BookInput,
) (*BookResult, error) {

	res, err := uc.execute(ctx, in)
	if err != nil {
		kind, _ := httperr.KindOf(err)
		result := string(kind)
		if result == "" {
			result = "error"
		}
		uc.metrics.ObserveBooking(result)

		attrs := []any{
			"barbershop_id", in.BarbershopID,
			"barber_id", in.BarberID,
			"service_id", in.ServiceID,
			"start", in.Start,
			"err", err,
		}
		if kind == httperr.KindStoreUnavailable || kind == "" {
			uc.logger.Error("booking failed", attrs...)
		} else {
			uc.logger.Warn("booking rejected", attrs...)
		}
		return nil, err
	}

	uc.metrics.ObserveBooking("created")
	uc.logger.Info("appointment booked",
		"appointment_id", res.Appointment.ID,
		"barbershop_id", res.Appointment.BarbershopID,
		"barber_id", res.Appointment.BarberID,
		"start", res.Appointment.StartTime,
		"status", res.Appointment.Status,
	)
	return res, nil
}

func (uc *Book) execute(ctx context.Context, in BookInput) (*BookResult, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	in.Customer.Name = strings.TrimSpace(in.Customer.Name)
	in.Customer.Phone = strings.TrimSpace(in.Customer.Phone)
	in.Customer.Email = strings.TrimSpace(in.Customer.Email)

	switch {
	case in.BarberID == 0:
		return nil, httperr.Validation("barber_required")
	case in.ServiceID == 0:
		return nil, httperr.Validation("service_required")
	case in.Start.IsZero() && (in.Date == "" || in.Time == ""):
		return nil, httperr.Validation("invalid_start")
	case in.Customer.Name == "":
		return nil, httperr.Validation("customer_name_required")
	case in.Customer.Phone == "":
		return nil, httperr.Validation("customer_phone_required")
	}

	// --------------------------------------------------
	// 2. Shop, service, barber
	// --------------------------------------------------
	shop, err := uc.dir.GetBarbershop(ctx, in.BarbershopID)
	if err != nil {
		return nil, lookupErr(err, httperr.NotFound("barbershop_not_found"))
	}
	loc := timezone.Location(shop.Timezone)

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

	barber, err := uc.dir.GetBarber(ctx, shop.ID, in.BarberID)
	if err != nil {
		return nil, lookupErr(err, httperr.Validation("barber_not_found"))
	}
	if !barber.Active {
		return nil, httperr.Validation("barber_not_found")
	}

	// --------------------------------------------------
	// 3. Slot still inside working hours
	// --------------------------------------------------
	start, err := requestedStart(in, loc)
	if err != nil {
		return nil, err
	}
	want := domain.NewInterval(start, time.Duration(svc.DurationMinutes)*time.Minute)

	shopRows, err := uc.dir.ShopHours(ctx, shop.ID)
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}
	barberRows, err := uc.dir.BarberHours(ctx, shop.ID, barber.ID)
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}

	localStart := start.In(loc)
	open, ok, err := schedule.Resolve(
		loc,
		schedule.WeekFromRecords(shopRows),
		schedule.WeekFromRecords(barberRows),
		localStart,
	)
	if err != nil {
		return nil, err
	}
	if !ok || !open.Contains(want) {
		return nil, httperr.InvalidSlot("outside_working_hours")
	}

	// --------------------------------------------------
	// 4. Lead time
	// --------------------------------------------------
	if start.Before(uc.clock.Now().Add(uc.settings.leadTime(shop))) {
		return nil, httperr.InvalidSlot("too_soon")
	}

	// --------------------------------------------------
	// 5. Atomic reserve
	// --------------------------------------------------
	status := domain.InitialStatus()
	if in.Confirmed {
		status = domain.StatusConfirmed
	}

	storeCtx, cancel := uc.settings.storeContext(ctx)
	defer cancel()

	ap, err := uc.cal.TryReserve(storeCtx, domain.ReserveRequest{
		BarbershopID: shop.ID,
		BarberID:     barber.ID,
		ServiceID:    svc.ID,
		Start:        want.Start,
		End:          want.End,
		Status:       status,
		Price:        svc.Price,
		Notes:        strings.TrimSpace(in.Notes),
		Customer:     in.Customer,
	})
	if errors.Is(err, domain.ErrConflict) {
		uc.audit.Dispatch(audit.Event{
			BarbershopID: shop.ID,
			UserID:       in.ActorID,
			Action:       audit.ActionAppointmentConflict,
			Entity:       "barber",
			EntityID:     &barber.ID,
			Metadata:     map[string]any{"start": want.Start, "end": want.End, "service_id": svc.ID},
		})
		return nil, httperr.SlotTaken()
	}
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}
	if ap == nil || ap.ID == 0 {
		return nil, httperr.StoreUnavailable(errors.New("reservation not acknowledged"))
	}

	// --------------------------------------------------
	// 6. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       in.ActorID,
		Action:       audit.ActionAppointmentCreated,
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"barber_id": barber.ID, "service_id": svc.ID, "status": ap.Status},
	})

	local := ap.StartTime.In(loc)
	return &BookResult{
		Appointment: ap,
		BarberName:  barber.Name,
		ServiceName: svc.Name,
		LocalDate:   local.Format(timezone.DateLayout),
		LocalTime:   local.Format(timezone.HMLayout),
		Timezone:    loc.String(),
	}, nil
}

func requestedStart(in BookInput, loc *time.Location) (time.Time, error) {
	if !in.Start.IsZero() {
		return in.Start.UTC().Truncate(time.Minute), nil
	}

	day, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date_or_time")
	}
	h, m, err := timezone.ParseHM(in.Time)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date_or_time")
	}
	return timezone.ResolveWallClock(day.Year(), day.Month(), day.Day(), h, m, loc), nil
}

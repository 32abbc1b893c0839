package appointment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/maxiG180/trimminflow/internal/audit"
	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/observability/metrics"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

type TransitionInput struct {
	BarbershopID  uint
	AppointmentID uint
	Target        domain.Status
	ActorID       *uint
}

// Transition applies dashboard status events (confirm, cancel, complete, no-show).
// The store update is a compare-and-set on the status that was read, so two racing
// events cannot both succeed.
type Transition struct {
	cal      domain.CalendarStore
	clock    timezone.Clock
	settings Settings
	audit    *audit.Dispatcher
	metrics  *metrics.BookingMetrics
	logger   *slog.Logger
}

func NewTransition(
	cal domain.CalendarStore,
	clock timezone.Clock,
	settings Settings,
	auditor *audit.Dispatcher,
	m *metrics.BookingMetrics,
	logger *slog.Logger,
) *Transition {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transition{
		cal:      cal,
		clock:    clock,
		settings: settings.normalized(),
		audit:    auditor,
		metrics:  m,
		logger:   logger,
	}
}

func (uc *Transition) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	if err != nil {
		result := "error"
		if kind, ok := httperr.KindOf(err); ok {
			result = string(kind)
		}
		uc.metrics.ObserveTransition(string(in.Target), result)
		uc.logger.Warn("status change rejected",
			"appointment_id", in.AppointmentID,
			"target", in.Target,
			"err", err,
		)
		return nil, err
	}

	uc.metrics.ObserveTransition(string(in.Target), "ok")
	uc.logger.Info("appointment status changed",
		"appointment_id", ap.ID,
		"barbershop_id", ap.BarbershopID,
		"status", ap.Status,
	)
	return ap, nil
}

func (uc *Transition) execute(ctx context.Context, in TransitionInput) (*models.Appointment, error) {
	ctx, cancel := uc.settings.storeContext(ctx)
	defer cancel()

	ap, err := uc.cal.GetAppointment(ctx, in.BarbershopID, in.AppointmentID)
	if err != nil {
		return nil, lookupErr(err, httperr.NotFound("appointment_not_found"))
	}

	from := domain.Status(ap.Status)
	if err := domain.Apply(ap, in.Target, uc.clock.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.cal.UpdateStatus(ctx, ap, from); err != nil {
		switch {
		case errors.Is(err, domain.ErrStatusChanged):
			return nil, httperr.InvalidState("status_changed")
		case errors.Is(err, domain.ErrNotFound):
			return nil, httperr.NotFound("appointment_not_found")
		default:
			return nil, httperr.StoreUnavailable(err)
		}
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       in.ActorID,
		Action:       audit.ActionAppointmentStatus,
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"from": from, "to": in.Target},
	})

	return ap, nil
}

package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/maxiG180/trimminflow/internal/models"
)

var (
	// ErrConflict means the requested interval overlaps a pending or confirmed appointment.
	ErrConflict = errors.New("appointment: interval already taken")

	ErrNotFound = errors.New("appointment: not found")

	// ErrStatusChanged means a compare-and-set status update lost to a concurrent change.
	ErrStatusChanged = errors.New("appointment: status changed concurrently")
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type ReserveRequest struct {
	BarbershopID uint
	BarberID     uint
	ServiceID    uint
	Start        time.Time
	End          time.Time
	Status       Status
	Price        float64
	Notes        string
	Customer     Customer
}

func (r ReserveRequest) Interval() Interval {
	return Interval{Start: r.Start, End: r.End}
}

type ListFilter struct {
	BarbershopID uint
	BarberID     uint // 0 means every barber
	From         time.Time
	To           time.Time
}

// Directory reads the records owned by the dashboard: shops, barbers, services and hours.
type Directory interface {
	GetBarbershop(ctx context.Context, id uint) (*models.Barbershop, error)
	GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error)

	GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.Barber, error)
	ListActiveBarbers(ctx context.Context, barbershopID uint) ([]models.Barber, error)
	// ListBarbers includes inactive barbers, for labelling past appointments.
	ListBarbers(ctx context.Context, barbershopID uint) ([]models.Barber, error)

	GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error)
	ListActiveServices(ctx context.Context, barbershopID uint) ([]models.Service, error)
	ListServices(ctx context.Context, barbershopID uint) ([]models.Service, error)

	ShopHours(ctx context.Context, barbershopID uint) ([]models.WorkingHours, error)
	BarberHours(ctx context.Context, barbershopID, barberID uint) ([]models.WorkingHours, error)
}

// CalendarStore is the single source of truth for occupied intervals.
type CalendarStore interface {
	// OccupiedIntervals returns pending and confirmed intervals of the barber that
	// overlap window, ordered by start.
	OccupiedIntervals(ctx context.Context, barberID uint, window Interval) ([]Interval, error)

	// TryReserve atomically inserts the appointment if no blocking appointment of the
	// barber overlaps it, returning ErrConflict otherwise.
	TryReserve(ctx context.Context, req ReserveRequest) (*models.Appointment, error)

	GetAppointment(ctx context.Context, barbershopID, appointmentID uint) (*models.Appointment, error)

	// UpdateStatus persists ap only if the stored status still equals from.
	UpdateStatus(ctx context.Context, ap *models.Appointment, from Status) error

	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)
}

package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

// Calendar keeps appointments in process. Reservations for one barber are serialised
// by a per-barber mutex so the overlap check and the insert happen as one step.
type Calendar struct {
	clock timezone.Clock

	locks sync.Map // barberID -> *sync.Mutex

	mu      sync.RWMutex
	nextID  uint
	nextCli uint
	apps    map[uint]models.Appointment
	clients map[clientKey]models.Client
}

type clientKey struct {
	shop  uint
	phone string
}

func NewCalendar(clock timezone.Clock) *Calendar {
	if clock == nil {
		clock = timezone.SystemClock{}
	}
	return &Calendar{
		clock:   clock,
		apps:    map[uint]models.Appointment{},
		clients: map[clientKey]models.Client{},
	}
}

func (c *Calendar) barberLock(barberID uint) *sync.Mutex {
	l, _ := c.locks.LoadOrStore(barberID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

func (c *Calendar) OccupiedIntervals(ctx context.Context, barberID uint, window domain.Interval) ([]domain.Interval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.Interval
	for _, ap := range c.apps {
		if ap.BarberID != barberID || !domain.Status(ap.Status).Blocking() {
			continue
		}
		iv := domain.Interval{Start: ap.StartTime, End: ap.EndTime}
		if iv.Overlaps(window) {
			out = append(out, iv)
		}
	}
	slices.SortFunc(out, func(a, b domain.Interval) int { return a.Start.Compare(b.Start) })
	return out, nil
}

func (c *Calendar) TryReserve(ctx context.Context, req domain.ReserveRequest) (*models.Appointment, error) {
	lock := c.barberLock(req.BarberID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Holding the barber lock, no other reservation for this barber can land between
	// the check and the insert. Status updates never turn a free interval into a
	// blocking one.
	occupied, err := c.OccupiedIntervals(ctx, req.BarberID, req.Interval())
	if err != nil {
		return nil, err
	}
	if len(occupied) > 0 {
		return nil, domain.ErrConflict
	}

	status := req.Status
	if status == "" {
		status = domain.InitialStatus()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now().UTC()
	c.nextID++
	ap := models.Appointment{
		ID:           c.nextID,
		BarbershopID: req.BarbershopID,
		BarberID:     req.BarberID,
		ServiceID:    req.ServiceID,
		ClientID:     c.clientFor(req.BarbershopID, req.Customer, now).ID,
		StartTime:    req.Start.UTC(),
		EndTime:      req.End.UTC(),
		Status:       string(status),
		Price:        req.Price,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	c.apps[ap.ID] = ap
	return &ap, nil
}

// clientFor must be called with c.mu held.
func (c *Calendar) clientFor(shopID uint, cu domain.Customer, now time.Time) models.Client {
	key := clientKey{shop: shopID, phone: cu.Phone}
	if cl, ok := c.clients[key]; ok {
		return cl
	}
	c.nextCli++
	cl := models.Client{
		ID:           c.nextCli,
		BarbershopID: shopID,
		Name:         cu.Name,
		Phone:        cu.Phone,
		Email:        cu.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	c.clients[key] = cl
	return cl
}

func (c *Calendar) GetAppointment(ctx context.Context, barbershopID, appointmentID uint) (*models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	ap, ok := c.apps[appointmentID]
	if !ok || ap.BarbershopID != barbershopID {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (c *Calendar) UpdateStatus(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.apps[ap.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if domain.Status(cur.Status) != from {
		return domain.ErrStatusChanged
	}

	cur.Status = ap.Status
	cur.ConfirmedAt = ap.ConfirmedAt
	cur.CancelledAt = ap.CancelledAt
	cur.CompletedAt = ap.CompletedAt
	cur.UpdatedAt = ap.UpdatedAt
	c.apps[ap.ID] = cur
	return nil
}

func (c *Calendar) ListAppointments(ctx context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range c.apps {
		if ap.BarbershopID != f.BarbershopID {
			continue
		}
		if f.BarberID != 0 && ap.BarberID != f.BarberID {
			continue
		}
		if ap.StartTime.Before(f.From) || !ap.StartTime.Before(f.To) {
			continue
		}
		out = append(out, ap)
	}
	slices.SortFunc(out, func(a, b models.Appointment) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return int(a.BarberID) - int(b.BarberID)
	})
	return out, nil
}

var _ domain.CalendarStore = (*Calendar)(nil)

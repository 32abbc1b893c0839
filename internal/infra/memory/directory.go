package memory

import (
	"context"
	"slices"
	"sync"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/models"
)

// Directory is an in-process replacement for the dashboard-owned tables.
type Directory struct {
	mu       sync.RWMutex
	shops    map[uint]models.Barbershop
	barbers  map[uint]models.Barber
	services map[uint]models.Service
	hours    []models.WorkingHours
}

func NewDirectory() *Directory {
	return &Directory{
		shops:    map[uint]models.Barbershop{},
		barbers:  map[uint]models.Barber{},
		services: map[uint]models.Service{},
	}
}

func (d *Directory) PutBarbershop(s models.Barbershop) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shops[s.ID] = s
}

func (d *Directory) PutBarber(b models.Barber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.barbers[b.ID] = b
}

func (d *Directory) PutService(s models.Service) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.services[s.ID] = s
}

// PutHours replaces the entry with the same owner and weekday.
func (d *Directory) PutHours(h models.WorkingHours) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.hours = slices.DeleteFunc(d.hours, func(x models.WorkingHours) bool {
		return x.BarbershopID == h.BarbershopID && sameBarber(x.BarberID, h.BarberID) && x.Weekday == h.Weekday
	})
	d.hours = append(d.hours, h)
}

func (d *Directory) GetBarbershop(ctx context.Context, id uint) (*models.Barbershop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.shops[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (d *Directory) GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, s := range d.shops {
		if s.Slug == slug {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (d *Directory) GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.Barber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	b, ok := d.barbers[barberID]
	if !ok || b.BarbershopID != barbershopID {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (d *Directory) ListActiveBarbers(ctx context.Context, barbershopID uint) ([]models.Barber, error) {
	return d.listBarbers(ctx, barbershopID, true)
}

func (d *Directory) ListBarbers(ctx context.Context, barbershopID uint) ([]models.Barber, error) {
	return d.listBarbers(ctx, barbershopID, false)
}

func (d *Directory) listBarbers(ctx context.Context, barbershopID uint, activeOnly bool) ([]models.Barber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []models.Barber
	for _, b := range d.barbers {
		if b.BarbershopID == barbershopID && (b.Active || !activeOnly) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b models.Barber) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

func (d *Directory) GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.services[serviceID]
	if !ok || s.BarbershopID != barbershopID {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (d *Directory) ListActiveServices(ctx context.Context, barbershopID uint) ([]models.Service, error) {
	return d.listServices(ctx, barbershopID, true)
}

func (d *Directory) ListServices(ctx context.Context, barbershopID uint) ([]models.Service, error) {
	return d.listServices(ctx, barbershopID, false)
}

func (d *Directory) listServices(ctx context.Context, barbershopID uint, activeOnly bool) ([]models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []models.Service
	for _, s := range d.services {
		if s.BarbershopID == barbershopID && (s.Active || !activeOnly) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b models.Service) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

func (d *Directory) ShopHours(ctx context.Context, barbershopID uint) ([]models.WorkingHours, error) {
	return d.hoursFor(ctx, barbershopID, nil)
}

func (d *Directory) BarberHours(ctx context.Context, barbershopID, barberID uint) ([]models.WorkingHours, error) {
	return d.hoursFor(ctx, barbershopID, &barberID)
}

func (d *Directory) hoursFor(ctx context.Context, barbershopID uint, barberID *uint) ([]models.WorkingHours, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []models.WorkingHours
	for _, h := range d.hours {
		if h.BarbershopID == barbershopID && sameBarber(h.BarberID, barberID) {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b models.WorkingHours) int { return a.Weekday - b.Weekday })
	return out, nil
}

func sameBarber(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

var _ domain.Directory = (*Directory)(nil)

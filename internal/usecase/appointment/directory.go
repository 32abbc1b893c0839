package appointment

import (
	"context"
	"time"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/models"
)

// boundedDirectory gives every directory lookup its own store timeout, the same
// bound the calendar calls get.
type boundedDirectory struct {
	next    domain.Directory
	timeout time.Duration
}

func bounded(dir domain.Directory, timeout time.Duration) domain.Directory {
	if b, ok := dir.(boundedDirectory); ok && b.timeout == timeout {
		return b
	}
	return boundedDirectory{next: dir, timeout: timeout}
}

func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}

func (d boundedDirectory) GetBarbershop(ctx context.Context, id uint) (*models.Barbershop, error) {
	return call(ctx, d.timeout, func(ctx context.Context) (*models.Barbershop, error) {
		return d.next.GetBarbershop(ctx, id)
	})
}

func (d boundedDirectory) GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error) {
	return call(ctx, d.timeout, func(ctx context.Context) (*models.Barbershop, error) {
		return d.next.GetBarbershopBySlug(ctx, slug)
	})
}

func (d boundedDirectory) GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.Barber, error) {
	return call(ctx, d.timeout, func(ctx context.Context) (*models.Barber, error) {
		return d.next.GetBarber(ctx, barbershopID, barberID)
	})
}

func (d boundedDirectory) ListActiveBarbers(ctx context.Context, barbershopID uint) ([]models.Barber, error) {
	return call(ctx, d.timeout, func(ctx context.Context) ([]models.Barber, error) {
		return d.next.ListActiveBarbers(ctx, barbershopID)
	})
}

func (d boundedDirectory) ListBarbers(ctx context.Context, barbershopID uint) ([]models.Barber, error) {
	return call(ctx, d.timeout, func(ctx context.Context) ([]models.Barber, error) {
		return d.next.ListBarbers(ctx, barbershopID)
	})
}

func (d boundedDirectory) GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	return call(ctx, d.timeout, func(ctx context.Context) (*models.Service, error) {
		return d.next.GetService(ctx, barbershopID, serviceID)
	})
}

func (d boundedDirectory) ListActiveServices(ctx context.Context, barbershopID uint) ([]models.Service, error) {
	return call(ctx, d.timeout, func(ctx context.Context) ([]models.Service, error) {
		return d.next.ListActiveServices(ctx, barbershopID)
	})
}

func (d boundedDirectory) ListServices(ctx context.Context, barbershopID uint) ([]models.Service, error) {
	return call(ctx, d.timeout, func(ctx context.Context) ([]models.Service, error) {
		return d.next.ListServices(ctx, barbershopID)
	})
}

func (d boundedDirectory) ShopHours(ctx context.Context, barbershopID uint) ([]models.WorkingHours, error) {
	return call(ctx, d.timeout, func(ctx context.Context) ([]models.WorkingHours, error) {
		return d.next.ShopHours(ctx, barbershopID)
	})
}

func (d boundedDirectory) BarberHours(ctx context.Context, barbershopID, barberID uint) ([]models.WorkingHours, error) {
	return call(ctx, d.timeout, func(ctx context.Context) ([]models.WorkingHours, error) {
		return d.next.BarberHours(ctx, barbershopID, barberID)
	})
}

var _ domain.Directory = boundedDirectory{}

package appointment

import (
	"context"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/models"
)

// Catalog is what the public booking wizard shows before asking for availability.
type Catalog struct {
	Barbershop *models.Barbershop `json:"barbershop"`
	Services   []models.Service   `json:"services"`
	Barbers    []models.Barber    `json:"barbers"`
}

type GetCatalog struct {
	dir domain.Directory
}

func NewGetCatalog(dir domain.Directory, settings Settings) *GetCatalog {
	return &GetCatalog{dir: bounded(dir, settings.normalized().StoreTimeout)}
}

func (uc *GetCatalog) Execute(ctx context.Context, slug string) (*Catalog, error) {
	shop, err := uc.dir.GetBarbershopBySlug(ctx, slug)
	if err != nil {
		return nil, lookupErr(err, httperr.NotFound("barbershop_not_found"))
	}

	services, err := uc.dir.ListActiveServices(ctx, shop.ID)
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}
	barbers, err := uc.dir.ListActiveBarbers(ctx, shop.ID)
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}

	if services == nil {
		services = []models.Service{}
	}
	if barbers == nil {
		barbers = []models.Barber{}
	}
	return &Catalog{Barbershop: shop, Services: services, Barbers: barbers}, nil
}

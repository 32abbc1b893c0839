package appointment

import (
	"context"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/dto"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

type ListAppointmentsInput struct {
	BarbershopID uint
	BarberID     uint
	From         string
	To           string
}

type ListAppointments struct {
	dir      domain.Directory
	cal      domain.CalendarStore
	settings Settings
}

func NewListAppointments(
	dir domain.Directory,
	cal domain.CalendarStore,
	settings Settings,
) *ListAppointments {
	settings = settings.normalized()
	return &ListAppointments{
		dir:      bounded(dir, settings.StoreTimeout),
		cal:      cal,
		settings: settings,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.dir.GetBarbershop(ctx, in.BarbershopID)
	if err != nil {
		return nil, lookupErr(err, httperr.NotFound("barbershop_not_found"))
	}
	loc := timezone.Location(shop.Timezone)

	days, err := dateRange(in.From, in.To, loc, uc.settings.MaxRangeDays)
	if err != nil {
		return nil, err
	}

	// [first local midnight, midnight after the last day)
	from := localMidnight(days[0], loc)
	to := localMidnight(days[len(days)-1].AddDate(0, 0, 1), loc)

	storeCtx, cancel := uc.settings.storeContext(ctx)
	defer cancel()

	apps, err := uc.cal.ListAppointments(storeCtx, domain.ListFilter{
		BarbershopID: shop.ID,
		BarberID:     in.BarberID,
		From:         from,
		To:           to,
	})
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}

	// Inactive barbers and services still label their past appointments.
	barbers, err := uc.dir.ListBarbers(ctx, shop.ID)
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}
	barberNames := make(map[uint]string, len(barbers))
	for _, b := range barbers {
		barberNames[b.ID] = b.Name
	}

	services, err := uc.dir.ListServices(ctx, shop.ID)
	if err != nil {
		return nil, httperr.StoreUnavailable(err)
	}
	serviceNames := make(map[uint]string, len(services))
	for _, s := range services {
		serviceNames[s.ID] = s.Name
	}

	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			BarberID:    ap.BarberID,
			BarberName:  barberNames[ap.BarberID],
			ServiceID:   ap.ServiceID,
			ServiceName: serviceNames[ap.ServiceID],
			ClientID:    ap.ClientID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			LocalStart:  ap.StartTime.In(loc).Format(timezone.DateLayout + " " + timezone.HMLayout),
			Status:      ap.Status,
			Price:       ap.Price,
			Notes:       ap.Notes,
		})
	}

	return out, nil
}

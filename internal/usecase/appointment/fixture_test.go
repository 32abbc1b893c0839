package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/infra/memory"
	"github.com/maxiG180/trimminflow/internal/logging"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

const (
	shopID      uint = 1
	joao        uint = 1
	pedro       uint = 2
	retired     uint = 3
	haircut     uint = 1
	beard       uint = 2
	oldService  uint = 3
	tuesday          = "2026-07-14"
	sundayAfter      = "2026-07-19"
)

// 2026-07-10 12:00 UTC, several days before the dates under test.
var defaultNow = time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	dir      *memory.Directory
	cal      *memory.Calendar
	clock    timezone.FixedClock
	settings Settings
	lisbon   *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	lisbon, err := time.LoadLocation("Europe/Lisbon")
	require.NoError(t, err)

	dir := memory.NewDirectory()
	dir.PutBarbershop(models.Barbershop{
		ID: shopID, Name: "Lisbon Cuts", Slug: "lisbon-cuts",
		Timezone: "Europe/Lisbon", MinAdvanceMinutes: 120,
	})
	dir.PutBarber(models.Barber{ID: joao, BarbershopID: shopID, Name: "Joao", Active: true})
	dir.PutBarber(models.Barber{ID: pedro, BarbershopID: shopID, Name: "Pedro", Active: true})
	dir.PutBarber(models.Barber{ID: retired, BarbershopID: shopID, Name: "Old", Active: false})
	dir.PutService(models.Service{ID: haircut, BarbershopID: shopID, Name: "Corte", DurationMinutes: 30, Price: 15, Active: true})
	dir.PutService(models.Service{ID: beard, BarbershopID: shopID, Name: "Barba", DurationMinutes: 45, Price: 10, Active: true})
	dir.PutService(models.Service{ID: oldService, BarbershopID: shopID, Name: "Legacy", DurationMinutes: 30, Active: false})

	for wd := 1; wd <= 6; wd++ {
		dir.PutHours(models.WorkingHours{BarbershopID: shopID, Weekday: wd, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"})
	}
	dir.PutHours(models.WorkingHours{BarbershopID: shopID, Weekday: 0, IsOpen: false})

	clock := timezone.FixedClock{T: defaultNow}
	return &fixture{
		dir:   dir,
		cal:   memory.NewCalendar(clock),
		clock: clock,
		settings: Settings{
			GranularityMinutes:     30,
			DefaultLeadTimeMinutes: 120,
			MaxRangeDays:           31,
			StoreTimeout:           time.Second,
		},
		lisbon: lisbon,
	}
}

func (f *fixture) findSlots() *FindSlots {
	return NewFindSlots(f.dir, f.cal, f.clock, f.settings, nil, logging.Discard().Logger)
}

func (f *fixture) book() *Book {
	return NewBook(f.dir, f.cal, f.clock, f.settings, nil, nil, logging.Discard().Logger)
}

func (f *fixture) transition() *Transition {
	return NewTransition(f.cal, f.clock, f.settings, nil, nil, logging.Discard().Logger)
}

// local returns the instant of a Lisbon wall clock time on the given date.
func (f *fixture) local(date string, h, m int) time.Time {
	d, err := time.ParseInLocation(timezone.DateLayout, date, f.lisbon)
	if err != nil {
		panic(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, f.lisbon).UTC()
}

func (f *fixture) occupy(t *testing.T, barberID uint, start time.Time, minutes int, status domain.Status) *models.Appointment {
	t.Helper()
	ap, err := f.cal.TryReserve(context.Background(), domain.ReserveRequest{
		BarbershopID: shopID,
		BarberID:     barberID,
		ServiceID:    haircut,
		Start:        start,
		End:          start.Add(time.Duration(minutes) * time.Minute),
		Status:       status,
		Customer:     domain.Customer{Name: "Seed", Phone: "000"},
	})
	require.NoError(t, err)
	return ap
}

func customer() domain.Customer {
	return domain.Customer{Name: "Marta Silva", Phone: "+351912345678", Email: "marta@example.com"}
}

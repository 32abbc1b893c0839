package appointment

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

func starts(slots []domain.Slot) []time.Time {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		out[i] = s.Start
	}
	return out
}

func TestFindSlotsFullDay(t *testing.T) {
	f := newFixture(t)

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: joao, ServiceID: haircut, From: tuesday,
	})
	require.NoError(t, err)

	assert.Equal(t, "Europe/Lisbon", out.Timezone)
	require.Len(t, out.Slots, 18)
	for i, s := range out.Slots {
		want := f.local(tuesday, 9, 0).Add(time.Duration(i) * 30 * time.Minute)
		assert.True(t, want.Equal(s.Start), "slot %d: want %s got %s", i, want, s.Start)
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start))
		assert.Equal(t, joao, s.BarberID)
		assert.Equal(t, haircut, s.ServiceID)
	}
	// Lisbon is UTC+1 in July.
	assert.Equal(t, time.Date(2026, time.July, 14, 8, 0, 0, 0, time.UTC), out.Slots[0].Start.UTC())
	assert.Equal(t, time.Date(2026, time.July, 14, 16, 30, 0, 0, time.UTC), out.Slots[17].Start.UTC())
}

func TestFindSlotsSkipsOccupiedInterval(t *testing.T) {
	f := newFixture(t)
	f.occupy(t, joao, f.local(tuesday, 10, 0), 30, domain.StatusConfirmed)

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: joao, ServiceID: haircut, From: tuesday,
	})
	require.NoError(t, err)

	got := starts(out.Slots)
	assert.Len(t, got, 17)
	assert.NotContains(t, got, f.local(tuesday, 10, 0))
	assert.Contains(t, got, f.local(tuesday, 9, 30))
	assert.Contains(t, got, f.local(tuesday, 10, 30))
}

func TestFindSlotsIgnoresReleasedAppointments(t *testing.T) {
	f := newFixture(t)
	ap := f.occupy(t, joao, f.local(tuesday, 10, 0), 30, domain.StatusConfirmed)

	_, err := f.transition().Execute(context.Background(), TransitionInput{
		BarbershopID: shopID, AppointmentID: ap.ID, Target: domain.StatusCancelled,
	})
	require.NoError(t, err)

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: joao, ServiceID: haircut, From: tuesday,
	})
	require.NoError(t, err)
	assert.Len(t, out.Slots, 18)
}

func TestFindSlotsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.occupy(t, joao, f.local(tuesday, 11, 15), 45, domain.StatusPending)
	uc := f.findSlots()
	in := FindSlotsInput{BarbershopID: shopID, ServiceID: beard, From: tuesday, To: "2026-07-16", GranularityMinutes: 15}

	first, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFindSlotsAllBarbersOrdered(t *testing.T) {
	f := newFixture(t)

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, ServiceID: haircut, From: tuesday,
	})
	require.NoError(t, err)

	require.Len(t, out.Slots, 36, "two active barbers, the inactive one is skipped")
	for i := 1; i < len(out.Slots); i++ {
		prev, cur := out.Slots[i-1], out.Slots[i]
		ordered := prev.Start.Before(cur.Start) || (prev.Start.Equal(cur.Start) && prev.BarberID < cur.BarberID)
		assert.True(t, ordered, "slot %d out of order", i)
		assert.NotEqual(t, retired, cur.BarberID)
	}
}

func TestFindSlotsBarberOverride(t *testing.T) {
	f := newFixture(t)
	p := pedro
	f.dir.PutHours(models.WorkingHours{BarbershopID: shopID, BarberID: &p, Weekday: 2, IsOpen: false})
	f.dir.PutHours(models.WorkingHours{BarbershopID: shopID, BarberID: &p, Weekday: 3, IsOpen: true, OpenTime: "14:00", CloseTime: "16:00"})

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: pedro, ServiceID: haircut, From: tuesday, To: "2026-07-15",
	})
	require.NoError(t, err)

	require.Len(t, out.Slots, 4, "tuesday off, wednesday 14:00-16:00")
	assert.True(t, out.Slots[0].Start.Equal(f.local("2026-07-15", 14, 0)))
	assert.True(t, out.Slots[3].Start.Equal(f.local("2026-07-15", 15, 30)))
}

func TestFindSlotsRespectsLeadTime(t *testing.T) {
	f := newFixture(t)
	f.clock = timezone.FixedClock{T: f.local(tuesday, 9, 10)}

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: joao, ServiceID: haircut, From: tuesday,
	})
	require.NoError(t, err)

	require.NotEmpty(t, out.Slots)
	assert.True(t, out.Slots[0].Start.Equal(f.local(tuesday, 11, 30)))
	assert.Len(t, out.Slots, 13)
}

func TestFindSlotsUsesDefaultLeadTimeWhenShopHasNone(t *testing.T) {
	f := newFixture(t)
	f.dir.PutBarbershop(models.Barbershop{ID: shopID, Slug: "lisbon-cuts", Timezone: "Europe/Lisbon"})
	f.settings.DefaultLeadTimeMinutes = 60
	f.clock = timezone.FixedClock{T: f.local(tuesday, 9, 0)}

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: joao, ServiceID: haircut, From: tuesday,
	})
	require.NoError(t, err)
	assert.True(t, out.Slots[0].Start.Equal(f.local(tuesday, 10, 0)))
}

func TestFindSlotsClosedDayIsEmptyNotError(t *testing.T) {
	f := newFixture(t)

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: joao, ServiceID: haircut, From: sundayAfter,
	})
	require.NoError(t, err)
	assert.NotNil(t, out.Slots)
	assert.Empty(t, out.Slots)
}

func TestFindSlotsValidation(t *testing.T) {
	f := newFixture(t)
	uc := f.findSlots()

	tests := []struct {
		name string
		in   FindSlotsInput
		kind httperr.Kind
		code string
	}{
		{"missing service", FindSlotsInput{BarbershopID: shopID, From: tuesday}, httperr.KindValidation, "service_required"},
		{"unknown service", FindSlotsInput{BarbershopID: shopID, ServiceID: 99, From: tuesday}, httperr.KindValidation, "service_not_found"},
		{"inactive service", FindSlotsInput{BarbershopID: shopID, ServiceID: oldService, From: tuesday}, httperr.KindValidation, "service_not_found"},
		{"unknown barber", FindSlotsInput{BarbershopID: shopID, BarberID: 42, ServiceID: haircut, From: tuesday}, httperr.KindValidation, "barber_not_found"},
		{"inactive barber", FindSlotsInput{BarbershopID: shopID, BarberID: retired, ServiceID: haircut, From: tuesday}, httperr.KindValidation, "barber_not_found"},
		{"bad date", FindSlotsInput{BarbershopID: shopID, ServiceID: haircut, From: "14/07/2026"}, httperr.KindValidation, "invalid_date"},
		{"inverted range", FindSlotsInput{BarbershopID: shopID, ServiceID: haircut, From: tuesday, To: "2026-07-13"}, httperr.KindValidation, "invalid_date_range"},
		{"range too large", FindSlotsInput{BarbershopID: shopID, ServiceID: haircut, From: "2026-07-01", To: "2026-08-01"}, httperr.KindValidation, "date_range_too_large"},
		{"granularity too small", FindSlotsInput{BarbershopID: shopID, ServiceID: haircut, From: tuesday, GranularityMinutes: 1}, httperr.KindValidation, "invalid_granularity"},
		{"unknown shop", FindSlotsInput{BarbershopID: 77, ServiceID: haircut, From: tuesday}, httperr.KindNotFound, "barbershop_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), tt.in)
			assert.Nil(t, out)
			assert.True(t, httperr.IsKind(err, tt.kind), "got %v", err)
			assert.Equal(t, tt.code, httperr.CodeOf(err))
		})
	}
}

func TestFindSlotsMaxRangeIsInclusive(t *testing.T) {
	f := newFixture(t)

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: joao, ServiceID: haircut, From: "2026-07-13", To: "2026-08-12",
	})
	require.NoError(t, err)
	// 31 days: 27 open weekdays/saturdays and 4 sundays.
	assert.Len(t, out.Slots, 27*18)
}

func TestFindSlotsNeverOverlapsOccupied(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(7))

	var taken []domain.Interval
	for i := 0; i < 40; i++ {
		day := 13 + rng.Intn(5)
		start := time.Date(2026, time.July, day, 9+rng.Intn(9), rng.Intn(12)*5, 0, 0, f.lisbon).UTC()
		minutes := 10 + rng.Intn(8)*10
		_, err := f.cal.TryReserve(context.Background(), domain.ReserveRequest{
			BarbershopID: shopID, BarberID: joao, ServiceID: haircut,
			Start: start, End: start.Add(time.Duration(minutes) * time.Minute),
			Customer: customer(),
		})
		if err == nil {
			taken = append(taken, domain.NewInterval(start, time.Duration(minutes)*time.Minute))
		}
	}
	require.NotEmpty(t, taken)

	out, err := f.findSlots().Execute(context.Background(), FindSlotsInput{
		BarbershopID: shopID, BarberID: joao, ServiceID: beard, From: "2026-07-13", To: "2026-07-17", GranularityMinutes: 5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Slots)

	for _, s := range out.Slots {
		for _, iv := range taken {
			assert.False(t, s.Interval().Overlaps(iv), "slot %s overlaps %s-%s", s.Start, iv.Start, iv.End)
		}
		local := s.Start.In(f.lisbon)
		assert.GreaterOrEqual(t, local.Hour(), 9)
		endLocal := s.End.In(f.lisbon)
		assert.True(t, endLocal.Hour() < 18 || (endLocal.Hour() == 18 && endLocal.Minute() == 0))
	}
}

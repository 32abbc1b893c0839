package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/logging"
	"github.com/maxiG180/trimminflow/internal/models"
)

func TestTransitionLifecycle(t *testing.T) {
	f := newFixture(t)
	ap := f.occupy(t, joao, f.local(tuesday, 10, 0), 30, domain.StatusPending)
	uc := f.transition()
	ctx := context.Background()

	confirmed, err := uc.Execute(ctx, TransitionInput{BarbershopID: shopID, AppointmentID: ap.ID, Target: domain.StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.True(t, confirmed.ConfirmedAt.Equal(defaultNow))

	done, err := uc.Execute(ctx, TransitionInput{BarbershopID: shopID, AppointmentID: ap.ID, Target: domain.StatusCompleted})
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt)

	_, err = uc.Execute(ctx, TransitionInput{BarbershopID: shopID, AppointmentID: ap.ID, Target: domain.StatusCancelled})
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidState))
	assert.Equal(t, "appointment_closed", httperr.CodeOf(err))

	stored, err := f.cal.GetAppointment(ctx, shopID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), stored.Status)
}

func TestTransitionNoShowNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	ap := f.occupy(t, joao, f.local(tuesday, 10, 0), 30, domain.StatusPending)

	_, err := f.transition().Execute(context.Background(), TransitionInput{
		BarbershopID: shopID, AppointmentID: ap.ID, Target: domain.StatusNoShow,
	})
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidState))
}

func TestTransitionUnknownAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.occupy(t, joao, f.local(tuesday, 10, 0), 30, domain.StatusPending)

	_, err := f.transition().Execute(context.Background(), TransitionInput{
		BarbershopID: shopID, AppointmentID: 404, Target: domain.StatusCancelled,
	})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	_, err = f.transition().Execute(context.Background(), TransitionInput{
		BarbershopID: 2, AppointmentID: ap.ID, Target: domain.StatusCancelled,
	})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound), "other shops cannot touch the appointment")
}

// racingCalendar lets a competing update land between the read and the write.
type racingCalendar struct {
	domain.CalendarStore
	race func()
}

func (c racingCalendar) GetAppointment(ctx context.Context, shop, id uint) (*models.Appointment, error) {
	ap, err := c.CalendarStore.GetAppointment(ctx, shop, id)
	c.race()
	return ap, err
}

func TestTransitionLosesConcurrentChange(t *testing.T) {
	f := newFixture(t)
	ap := f.occupy(t, joao, f.local(tuesday, 10, 0), 30, domain.StatusPending)

	cal := racingCalendar{CalendarStore: f.cal, race: func() {
		competing := *ap
		require.NoError(t, domain.Apply(&competing, domain.StatusCancelled, defaultNow))
		require.NoError(t, f.cal.UpdateStatus(context.Background(), &competing, domain.StatusPending))
	}}
	uc := NewTransition(cal, f.clock, f.settings, nil, nil, logging.Discard().Logger)

	_, err := uc.Execute(context.Background(), TransitionInput{
		BarbershopID: shopID, AppointmentID: ap.ID, Target: domain.StatusConfirmed,
	})
	assert.Equal(t, "status_changed", httperr.CodeOf(err))

	stored, err := f.cal.GetAppointment(context.Background(), shopID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), stored.Status)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/models"
)

const pgExclusionViolation = "23P01"

type CalendarGormStore struct {
	db *gorm.DB
}

func NewCalendarGormStore(db *gorm.DB) *CalendarGormStore {
	return &CalendarGormStore{db: db}
}

// --------------------------------------------------
// Occupancy
// --------------------------------------------------

func (s *CalendarGormStore) OccupiedIntervals(
	ctx context.Context,
	barberID uint,
	window domain.Interval,
) ([]domain.Interval, error) {

	var apps []models.Appointment
	if err := s.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			barberID, domain.BlockingStatuses(), window.End, window.Start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("occupied intervals: %w", err)
	}

	out := make([]domain.Interval, 0, len(apps))
	for _, ap := range apps {
		out = append(out, domain.Interval{Start: ap.StartTime.UTC(), End: ap.EndTime.UTC()})
	}
	return out, nil
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

// TryReserve serialises writers of one barber with a transaction scoped advisory lock,
// re-checks overlap and inserts. The exclusion constraint installed by the migration
// rejects anything that slips past the lock.
func (s *CalendarGormStore) TryReserve(
	ctx context.Context,
	req domain.ReserveRequest,
) (*models.Appointment, error) {

	var ap models.Appointment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(req.BarberID)).Error; err != nil {
			return err
		}

		var taken []uint
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				req.BarberID, domain.BlockingStatuses(), req.End, req.Start,
			).
			Limit(1).
			Pluck("id", &taken).Error; err != nil {
			return err
		}
		if len(taken) > 0 {
			return domain.ErrConflict
		}

		client, err := getOrCreateClient(tx, req.BarbershopID, req.Customer)
		if err != nil {
			return err
		}

		status := req.Status
		if status == "" {
			status = domain.InitialStatus()
		}

		ap = models.Appointment{
			BarbershopID: req.BarbershopID,
			BarberID:     req.BarberID,
			ServiceID:    req.ServiceID,
			ClientID:     client.ID,
			StartTime:    req.Start.UTC(),
			EndTime:      req.End.UTC(),
			Status:       string(status),
			Price:        req.Price,
			Notes:        req.Notes,
		}
		return tx.Create(&ap).Error
	})

	if err != nil {
		if errors.Is(err, domain.ErrConflict) || isPgCode(err, pgExclusionViolation) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("try reserve: %w", err)
	}

	return &ap, nil
}

func getOrCreateClient(
	tx *gorm.DB,
	barbershopID uint,
	c domain.Customer,
) (*models.Client, error) {

	var client models.Client
	err := tx.
		Where("barbershop_id = ? AND phone = ?", barbershopID, c.Phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		BarbershopID: barbershopID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
	}
	if err := tx.Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Appointment state
// --------------------------------------------------

func (s *CalendarGormStore) GetAppointment(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := s.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", appointmentID, barbershopID).
		First(&ap).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &ap, nil
}

func (s *CalendarGormStore) UpdateStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(from)).
		Updates(map[string]any{
			"status":       ap.Status,
			"confirmed_at": ap.ConfirmedAt,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
			"updated_at":   ap.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusChanged
	}
	return nil
}

func (s *CalendarGormStore) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := s.db.WithContext(ctx).
		Where(
			"barbershop_id = ? AND start_time >= ? AND start_time < ?",
			f.BarbershopID, f.From, f.To,
		)
	if f.BarberID != 0 {
		q = q.Where("barber_id = ?", f.BarberID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC, barber_id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Compile-time check
var _ domain.CalendarStore = (*CalendarGormStore)(nil)

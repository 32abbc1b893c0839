package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/models"
)

type DirectoryGormRepository struct {
	db *gorm.DB
}

func NewDirectoryGormRepository(db *gorm.DB) *DirectoryGormRepository {
	return &DirectoryGormRepository{db: db}
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *DirectoryGormRepository) GetBarbershop(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &shop, nil
}

func (r *DirectoryGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &shop, nil
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *DirectoryGormRepository) GetBarber(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", barberID, barbershopID).
		First(&barber).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &barber, nil
}

func (r *DirectoryGormRepository) ListActiveBarbers(
	ctx context.Context,
	barbershopID uint,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND active = true", barbershopID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *DirectoryGormRepository) ListBarbers(
	ctx context.Context,
	barbershopID uint,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *DirectoryGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", serviceID, barbershopID).
		First(&svc).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &svc, nil
}

func (r *DirectoryGormRepository) ListActiveServices(
	ctx context.Context,
	barbershopID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND active = true", barbershopID).
		Order("category ASC, name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *DirectoryGormRepository) ListServices(
	ctx context.Context,
	barbershopID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *DirectoryGormRepository) ShopHours(
	ctx context.Context,
	barbershopID uint,
) ([]models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND barber_id IS NULL", barbershopID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DirectoryGormRepository) BarberHours(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) ([]models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND barber_id = ?", barbershopID, barberID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Compile-time check
var _ domain.Directory = (*DirectoryGormRepository)(nil)

package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint `gorm:"index;not null" json:"barbershop_id"`
	BarberID     uint `gorm:"index:idx_appointments_barber_start;not null" json:"barber_id"`
	ServiceID    uint `gorm:"not null" json:"service_id"`
	ClientID     uint `json:"client_id"`

	StartTime time.Time `gorm:"index:idx_appointments_barber_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	// Snapshot of the service price at booking time.
	Price float64 `json:"price"`

	Notes       string     `gorm:"size:255" json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

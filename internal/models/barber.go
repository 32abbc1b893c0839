package models

import "time"

type Barber struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BarbershopID uint   `gorm:"index;not null" json:"barbershop_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

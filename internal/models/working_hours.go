package models

import "time"

// WorkingHours is one weekday entry. Rows with a nil BarberID are the shop's hours;
// rows with a BarberID override the shop for that barber on that weekday. NULLs are
// distinct in a unique index, so shop rows and barber rows get separate partial indexes.
type WorkingHours struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	BarbershopID uint  `gorm:"uniqueIndex:idx_hours_shop_day,where:barber_id IS NULL;uniqueIndex:idx_hours_barber_day,where:barber_id IS NOT NULL;not null" json:"barbershop_id"`
	BarberID     *uint `gorm:"uniqueIndex:idx_hours_barber_day,where:barber_id IS NOT NULL" json:"barber_id"`

	Weekday int `gorm:"uniqueIndex:idx_hours_shop_day,where:barber_id IS NULL;uniqueIndex:idx_hours_barber_day,where:barber_id IS NOT NULL;not null" json:"weekday"`

	IsOpen    bool   `json:"is_open"`
	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

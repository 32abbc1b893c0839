package dto

import "time"

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	BarberID    uint      `json:"barber_id"`
	BarberName  string    `json:"barber_name"`
	ServiceID   uint      `json:"service_id"`
	ServiceName string    `json:"service_name"`
	ClientID    uint      `json:"client_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	LocalStart  string    `json:"local_start"`
	Status      string    `json:"status"`
	Price       float64   `json:"price"`
	Notes       string    `json:"notes"`
}

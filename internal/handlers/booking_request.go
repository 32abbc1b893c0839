package handlers

import (
	"strings"
	"time"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/httperr"
	ucAppointment "github.com/maxiG180/trimminflow/internal/usecase/appointment"
	"github.com/maxiG180/trimminflow/internal/validators"
)

////////////////////////////////////////////////////////
// REQUEST
////////////////////////////////////////////////////////

// BookingRequest is shared by the public wizard and the dashboard. Either Start
// (RFC 3339) or Date + Time in the shop's local clock must be sent.
type BookingRequest struct {
	BarberID    uint       `json:"barber_id" binding:"required"`
	ServiceID   uint       `json:"service_id" binding:"required"`
	Start       *time.Time `json:"start"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Time        string     `json:"time"` // HH:mm
	ClientName  string     `json:"client_name" binding:"required"`
	ClientPhone string     `json:"client_phone" binding:"required"`
	ClientEmail string     `json:"client_email"`
	Notes       string     `json:"notes"`
	Confirmed   bool       `json:"confirmed"`
}

func (r BookingRequest) toInput(barbershopID uint) (ucAppointment.BookInput, error) {
	phone, ok := validators.NormalizePhone(r.ClientPhone)
	if !ok {
		return ucAppointment.BookInput{}, httperr.Validation("invalid_client_phone")
	}
	if !validators.IsEmailValid(r.ClientEmail) {
		return ucAppointment.BookInput{}, httperr.Validation("invalid_client_email")
	}

	in := ucAppointment.BookInput{
		BarbershopID: barbershopID,
		BarberID:     r.BarberID,
		ServiceID:    r.ServiceID,
		Date:         strings.TrimSpace(r.Date),
		Time:         strings.TrimSpace(r.Time),
		Customer: domain.Customer{
			Name:  r.ClientName,
			Phone: phone,
			Email: strings.TrimSpace(r.ClientEmail),
		},
		Notes: r.Notes,
	}
	if r.Start != nil {
		in.Start = *r.Start
	}
	return in, nil
}

package appointment

import (
	"strings"

	"github.com/maxiG180/trimminflow/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
	StatusCancelled: nil,
	StatusCompleted: nil,
	StatusNoShow:    nil,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", httperr.Validation("invalid_status")
	}
	return st, nil
}

// Blocking reports whether an appointment in this status occupies its interval.
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal statuses accept no further transition.
func (s Status) Terminal() bool {
	next, known := transitions[s]
	return known && len(next) == 0
}

// BlockingStatuses is the status set used by occupancy queries.
func BlockingStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	if from.Terminal() {
		return httperr.InvalidState("appointment_closed")
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.InvalidState("invalid_transition")
}

func InitialStatus() Status {
	return StatusPending
}

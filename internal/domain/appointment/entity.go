package appointment

import (
	"time"

	"github.com/maxiG180/trimminflow/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Apply moves ap to the target status and stamps the matching timestamp.
func Apply(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted, StatusNoShow:
		ap.CompletedAt = &now
	}
	ap.UpdatedAt = now
	return nil
}

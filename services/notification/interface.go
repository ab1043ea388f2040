package notification

import (
	"context"

	"mediq/models"
)

// Service sends best-effort push notifications. Callers log failures and
// never let them fail a booking or cancellation.
type Service interface {
	// NotifyBookingConfirmed pushes the booking confirmation with the
	// reserved position and derived times.
	NotifyBookingConfirmed(ctx context.Context, appt *models.Appointment, position int) error
	// NotifyNextInLine pushes the "you're next" alert.
	NotifyNextInLine(ctx context.Context, appt *models.Appointment) error
}

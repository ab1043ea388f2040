package booking

import (
	"context"

	"mediq/models"
)

// Service is the slot-queue booking engine: it allocates queue positions,
// resolves live positions for listings, and rebalances queues on
// cancellation and completion.
type Service interface {
	// BookAppointment reserves the next queue position in the doctor's
	// (date, time) slot and returns the position with derived times.
	BookAppointment(ctx context.Context, patientID, doctorID, slotDate, slotTime string) (*models.BookingResult, error)
	// CancelByPatient cancels the patient's own appointment.
	CancelByPatient(ctx context.Context, patientID, appointmentID string) error
	// CancelByDoctor cancels an appointment from the doctor panel.
	CancelByDoctor(ctx context.Context, doctorID, appointmentID string) error
	// Complete marks an appointment completed from the doctor panel.
	Complete(ctx context.Context, doctorID, appointmentID string) error
	// ListForPatient returns the patient's appointments with live queue info.
	ListForPatient(ctx context.Context, patientID string) ([]models.AppointmentView, error)
	// ListForDoctor returns the doctor's appointments with live queue info.
	ListForDoctor(ctx context.Context, doctorID string) ([]models.AppointmentView, error)
	// UpdatePatientStatus records a patient-reported progress change.
	UpdatePatientStatus(ctx context.Context, patientID, appointmentID string, status models.PatientStatus) error
	// MarkPaid flips the payment flag; invoked by the external payment
	// collaborator after it has verified a charge.
	MarkPaid(ctx context.Context, appointmentID string) error
}

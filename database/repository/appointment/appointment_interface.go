package appointmentRepo

import (
	"errors"
	"time"

	"mediq/models"
)

// ErrNotFound is returned when no appointment matches the given id.
var ErrNotFound = errors.New("appointment not found")

// AppointmentRepository defines methods for appointment data access.
// Appointments are soft-state records: cancel/complete set flags, nothing
// is removed except during booking rollback.
type AppointmentRepository interface {
	// Create inserts a new appointment record.
	Create(appt *models.Appointment) error
	// GetByID retrieves an appointment by its unique ID.
	GetByID(id string) (*models.Appointment, error)
	// Update replaces an existing appointment record.
	Update(appt *models.Appointment) error
	// Delete removes an appointment record. Only used to roll back a
	// booking whose queue append could not be committed.
	Delete(id string) error
	// FindByDoctor returns all appointments for a doctor, oldest first.
	FindByDoctor(doctorID string) ([]models.Appointment, error)
	// FindByPatient returns all appointments for a patient, oldest first.
	FindByPatient(patientID string) ([]models.Appointment, error)
	// MarkCancelled sets the cancelled flag.
	MarkCancelled(id string) error
	// MarkCompleted sets the completed flag.
	MarkCompleted(id string) error
	// SetPayment sets the payment flag.
	SetPayment(id string, paid bool) error
	// SetNotificationSent sets the "you're next" notification flag.
	SetNotificationSent(id string, sent bool) error
	// UpdatePatientStatus records a patient-reported status change.
	UpdatePatientStatus(id string, status models.PatientStatus, at time.Time) error
}

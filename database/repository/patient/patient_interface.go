package patientRepo

import (
	"errors"

	"mediq/models"
)

// ErrNotFound is returned when no patient matches the given id.
var ErrNotFound = errors.New("patient not found")

// PatientRepository defines methods for patient data access. Account
// management lives elsewhere; the booking engine only reads profiles and
// push tokens.
type PatientRepository interface {
	// GetByID retrieves a patient by its unique ID.
	GetByID(id string) (*models.Patient, error)
	// Create inserts a new patient record.
	Create(patient *models.Patient) error
	// UpdateFCMToken stores the patient's push token.
	UpdateFCMToken(id string, token string) error
}

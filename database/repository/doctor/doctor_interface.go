package doctorRepo

import (
	"errors"

	"mediq/models"
)

// ErrNotFound is returned when no doctor matches the given id.
var ErrNotFound = errors.New("doctor not found")

// ErrVersionConflict is returned by UpdateSlots when the doctor's slot map
// was modified since it was read. Callers refetch and retry.
var ErrVersionConflict = errors.New("slot map version conflict")

// DoctorRepository defines methods for doctor data access.
type DoctorRepository interface {
	// GetByID retrieves a doctor by its unique ID.
	GetByID(id string) (*models.Doctor, error)
	// GetAll retrieves all doctors.
	GetAll() ([]models.Doctor, error)
	// Create inserts a new doctor record.
	Create(doctor *models.Doctor) error
	// UpdateProfile patches the editable profile fields.
	UpdateProfile(id string, fees float64, address models.Address, available bool) error
	// SetAvailability sets the doctor's availability flag.
	SetAvailability(id string, available bool) error
	// UpdateSlots writes the doctor's slot map if and only if its version
	// still equals expectedVersion, bumping the version on success. This is
	// the serialization point for all queue mutations on one doctor.
	UpdateSlots(id string, slots models.SlotMap, expectedVersion int) error
}

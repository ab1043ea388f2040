// Package doctor provides the doctor-panel operations around the booking
// engine: public listings, availability, profile edits and the dashboard.
package doctor

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "mediq/database/repository/appointment"
	doctorRepo "mediq/database/repository/doctor"
	"mediq/models"
)

// ErrNotFound is returned when the doctor does not exist.
var ErrNotFound = errors.New("doctor not found")

// Service defines the doctor-panel operations.
type Service interface {
	// List returns all doctors for the public directory.
	List(ctx context.Context) ([]models.Doctor, error)
	// GetProfile returns a doctor's full profile.
	GetProfile(ctx context.Context, doctorID string) (*models.Doctor, error)
	// UpdateProfile patches the editable profile fields.
	UpdateProfile(ctx context.Context, doctorID string, fees float64, address models.Address, available bool) error
	// ChangeAvailability toggles the availability flag and returns the new value.
	ChangeAvailability(ctx context.Context, doctorID string) (bool, error)
	// Dashboard aggregates earnings, patient count and recent appointments.
	Dashboard(ctx context.Context, doctorID string) (*models.DoctorDashboard, error)
}

// DefaultDoctorService is the production implementation.
type DefaultDoctorService struct {
	Repo         doctorRepo.DoctorRepository
	Appointments appointmentRepo.AppointmentRepository
}

func (s *DefaultDoctorService) List(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.Repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	// The directory is public; strip credentials-adjacent fields.
	for i := range doctors {
		doctors[i].Email = ""
		doctors[i].FCMToken = ""
	}
	return doctors, nil
}

func (s *DefaultDoctorService) GetProfile(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, err := s.Repo.GetByID(doctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch doctor profile: %w", err)
	}
	return doctor, nil
}

func (s *DefaultDoctorService) UpdateProfile(ctx context.Context, doctorID string, fees float64, address models.Address, available bool) error {
	if err := s.Repo.UpdateProfile(doctorID, fees, address, available); err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update doctor profile: %w", err)
	}
	return nil
}

func (s *DefaultDoctorService) ChangeAvailability(ctx context.Context, doctorID string) (bool, error) {
	doctor, err := s.Repo.GetByID(doctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("fetch doctor: %w", err)
	}

	next := !doctor.Available
	if err := s.Repo.SetAvailability(doctorID, next); err != nil {
		return false, fmt.Errorf("set availability: %w", err)
	}
	return next, nil
}

// Dashboard sums earnings over completed-or-paid appointments, counts
// unique patients and returns the most recent appointments first.
func (s *DefaultDoctorService) Dashboard(ctx context.Context, doctorID string) (*models.DoctorDashboard, error) {
	appts, err := s.Appointments.FindByDoctor(doctorID)
	if err != nil {
		return nil, fmt.Errorf("fetch doctor appointments: %w", err)
	}

	var earnings float64
	patients := map[string]struct{}{}
	for _, a := range appts {
		if a.IsCompleted || a.Payment {
			earnings += a.Amount
		}
		patients[a.PatientID] = struct{}{}
	}

	latest := make([]models.Appointment, len(appts))
	for i, a := range appts {
		latest[len(appts)-1-i] = a
	}

	return &models.DoctorDashboard{
		Earnings:           earnings,
		Appointments:       len(appts),
		Patients:           len(patients),
		LatestAppointments: latest,
	}, nil
}

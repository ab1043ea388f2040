package booking

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "mediq/database/repository/appointment"
	"mediq/models"
)

// UpdatePatientStatus records a patient-reported progress change. Statuses
// form no enforced transition graph; any listed value is accepted in any
// order, with a timestamp recorded on each change.
func (s *DefaultBookingService) UpdatePatientStatus(ctx context.Context, patientID, appointmentID string, status models.PatientStatus) error {
	if !status.Valid() {
		return NewError(CodeInvalidStatus, fmt.Sprintf("invalid patient status %q", status))
	}

	appt, err := s.getAppointment(appointmentID)
	if err != nil {
		return err
	}
	if appt.PatientID != patientID {
		return NewError(CodeUnauthorized, "appointment does not belong to this patient")
	}

	if err := s.Appointments.UpdatePatientStatus(appointmentID, status, s.now()); err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return NewError(CodeNotFound, "appointment not found")
		}
		return storageError("update patient status", err)
	}
	return nil
}

// MarkPaid flips the payment flag. The actual charge is captured and
// verified by an external payment collaborator.
func (s *DefaultBookingService) MarkPaid(ctx context.Context, appointmentID string) error {
	appt, err := s.getAppointment(appointmentID)
	if err != nil {
		return err
	}
	if appt.Cancelled {
		return NewError(CodeNotFound, "appointment cancelled or not found")
	}

	if err := s.Appointments.SetPayment(appointmentID, true); err != nil {
		return storageError("set payment flag", err)
	}
	return nil
}

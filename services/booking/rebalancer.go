package booking

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	appointmentRepo "mediq/database/repository/appointment"
	doctorRepo "mediq/database/repository/doctor"
	"mediq/models"
	"mediq/services/queue"
	"mediq/utils"
)

// TaskTypeNextInLine is the asynq task type for "you're next" reminders.
const TaskTypeNextInLine = "queue:next_in_line"

type nextInLinePayload struct {
	AppointmentID string `json:"appointmentId"`
}

// CancelByPatient cancels the patient's own appointment and rebalances
// its slot queue.
func (s *DefaultBookingService) CancelByPatient(ctx context.Context, patientID, appointmentID string) error {
	appt, err := s.getAppointment(appointmentID)
	if err != nil {
		return err
	}
	if appt.PatientID != patientID {
		return NewError(CodeUnauthorized, "appointment does not belong to this patient")
	}
	return s.release(ctx, appt.ID, appt.DoctorID, appt.SlotDate, appt.SlotTime, s.Appointments.MarkCancelled)
}

// CancelByDoctor cancels an appointment from the doctor panel.
func (s *DefaultBookingService) CancelByDoctor(ctx context.Context, doctorID, appointmentID string) error {
	appt, err := s.getAppointment(appointmentID)
	if err != nil {
		return err
	}
	if appt.DoctorID != doctorID {
		return NewError(CodeUnauthorized, "appointment does not belong to this doctor")
	}
	return s.release(ctx, appt.ID, appt.DoctorID, appt.SlotDate, appt.SlotTime, s.Appointments.MarkCancelled)
}

// Complete marks an appointment completed from the doctor panel. Apart
// from the flag it sets, it shares the exact rebalancing contract with
// cancellation.
func (s *DefaultBookingService) Complete(ctx context.Context, doctorID, appointmentID string) error {
	appt, err := s.getAppointment(appointmentID)
	if err != nil {
		return err
	}
	if appt.DoctorID != doctorID {
		return NewError(CodeUnauthorized, "appointment does not belong to this doctor")
	}
	return s.release(ctx, appt.ID, appt.DoctorID, appt.SlotDate, appt.SlotTime, s.Appointments.MarkCompleted)
}

func (s *DefaultBookingService) getAppointment(id string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "appointment not found")
		}
		return nil, storageError("fetch appointment", err)
	}
	return appt, nil
}

// release sets the terminal flag, removes the appointment id from its
// slot queue (pruning empty structures) and resets the notification flag
// on the appointment promoted to second-in-line.
func (s *DefaultBookingService) release(ctx context.Context, apptID, doctorID, slotDate, slotTime string, mark func(string) error) error {
	if err := mark(apptID); err != nil {
		return storageError("flag appointment", err)
	}

	for attempt := 0; attempt < slotWriteRetries; attempt++ {
		doctor, err := s.Doctors.GetByID(doctorID)
		if err != nil {
			if errors.Is(err, doctorRepo.ErrNotFound) {
				// The queue is gone with the doctor; nothing to rebalance.
				utils.GetLogger().Warn("doctor missing during queue release",
					zap.String("appointmentId", apptID), zap.String("doctorId", doctorID))
				return nil
			}
			return storageError("fetch doctor", err)
		}

		slots := doctor.SlotsBooked
		if slots == nil {
			return nil
		}
		if !queue.Remove(slots, slotDate, slotTime, apptID) {
			// Already absent; removal is idempotent.
			return nil
		}
		promotedID, promoted := queue.SecondInLine(slots, slotDate, slotTime)

		err = s.Doctors.UpdateSlots(doctor.ID, slots, doctor.SlotsVersion)
		if errors.Is(err, doctorRepo.ErrVersionConflict) {
			continue
		}
		if err != nil {
			if errors.Is(err, doctorRepo.ErrNotFound) {
				return nil
			}
			return storageError("release slot", err)
		}

		if promoted {
			s.promote(ctx, promotedID)
		}
		return nil
	}

	return NewError(CodeStorageUnavailable,
		"could not release slot due to concurrent updates, please retry")
}

// promote resets the "you're next" flag on the new second-in-line so it
// becomes eligible again for a reminder, and enqueues the reminder job.
// Resetting an already-false flag is a no-op; failures here are logged
// and never fail the cancellation.
func (s *DefaultBookingService) promote(ctx context.Context, appointmentID string) {
	if err := s.Appointments.SetNotificationSent(appointmentID, false); err != nil {
		utils.GetLogger().Warn("failed to reset notification flag on promoted appointment",
			zap.String("appointmentId", appointmentID), zap.Error(err))
		return
	}

	if s.Tasks == nil {
		return
	}
	payload, err := json.Marshal(nextInLinePayload{AppointmentID: appointmentID})
	if err != nil {
		return
	}
	if _, err := s.Tasks.EnqueueContext(ctx, asynq.NewTask(TaskTypeNextInLine, payload)); err != nil {
		utils.GetLogger().Warn("failed to enqueue next-in-line reminder",
			zap.String("appointmentId", appointmentID), zap.Error(err))
	}
}

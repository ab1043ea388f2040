package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	doctorRepo "mediq/database/repository/doctor"
	patientRepo "mediq/database/repository/patient"
	"mediq/models"
	"mediq/services/clock"
	"mediq/services/queue"
	"mediq/utils"
)

// BookAppointment validates the request, reserves the next position in
// the doctor's (date, time) queue and returns the position with derived
// times. The capacity check and the queue append run against the same
// read snapshot inside an optimistic retry loop, so two racing bookings
// can never both take the last place.
func (s *DefaultBookingService) BookAppointment(ctx context.Context, patientID, doctorID, slotDate, slotTime string) (*models.BookingResult, error) {
	date, err := clock.NormalizeDate(slotDate)
	if err != nil {
		return nil, NewError(CodeDateOutOfWindow, fmt.Sprintf("unrecognized appointment date %q", slotDate))
	}
	if !clock.WithinWindow(date, s.now(), s.Policy.WindowDays) {
		return nil, NewError(CodeDateOutOfWindow,
			fmt.Sprintf("appointments can only be booked within %d days from today", s.Policy.WindowDays))
	}
	if !ValidSlotTime(slotTime) {
		return nil, NewError(CodeInvalidSlotTime, "invalid slot time, please select a slot between 9:00 AM and 7:00 PM")
	}

	patient, err := s.Patients.GetByID(patientID)
	if err != nil {
		if errors.Is(err, patientRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "patient not found")
		}
		return nil, storageError("fetch patient", err)
	}

	apptID := uuid.New().String()
	created := false

	rollback := func() {
		if !created {
			return
		}
		if err := s.Appointments.Delete(apptID); err != nil {
			utils.GetLogger().Error("booking rollback failed, appointment record left dangling",
				zap.String("appointmentId", apptID), zap.Error(err))
		}
	}

	for attempt := 0; attempt < slotWriteRetries; attempt++ {
		doctor, err := s.Doctors.GetByID(doctorID)
		if err != nil {
			rollback()
			if errors.Is(err, doctorRepo.ErrNotFound) {
				return nil, NewError(CodeNotFound, "doctor not found")
			}
			return nil, storageError("fetch doctor", err)
		}
		if !doctor.Available {
			rollback()
			return nil, NewError(CodeDoctorUnavailable, "doctor is not available for bookings")
		}

		slots := doctor.SlotsBooked
		if slots == nil {
			slots = models.SlotMap{}
		}
		if queue.Remaining(slots, date, slotTime, s.Policy.Capacity) == 0 {
			rollback()
			return nil, NewError(CodeSlotFull,
				fmt.Sprintf("slot is full, maximum %d appointments per slot", s.Policy.Capacity))
		}

		position := len(slots[date][slotTime]) + 1
		estimated, err := clock.EstimateServiceTime(slotTime, position, s.Policy.ServiceMinutes)
		if err != nil {
			rollback()
			return nil, NewError(CodeInvalidTimeFormat, err.Error())
		}
		arrival, err := clock.SuggestedArrival(estimated, s.Policy.ArrivalLeadMinutes)
		if err != nil {
			rollback()
			return nil, NewError(CodeInvalidTimeFormat, err.Error())
		}

		appt := &models.Appointment{
			ID:        apptID,
			DoctorID:  doctor.ID,
			PatientID: patient.ID,
			Doctor: models.DoctorSnapshot{
				ID:         doctor.ID,
				Name:       doctor.Name,
				Speciality: doctor.Speciality,
				Degree:     doctor.Degree,
				Image:      doctor.Image,
				Fees:       doctor.Fees,
				Address:    doctor.Address,
			},
			Patient: models.PatientSnapshot{
				ID:    patient.ID,
				Name:  patient.Name,
				Email: patient.Email,
				Image: patient.Image,
			},
			Amount:           doctor.Fees,
			SlotDate:         date,
			SlotTime:         slotTime,
			EstimatedTime:    estimated,
			SuggestedArrival: arrival,
			PatientStatus:    models.StatusWaiting,
			CreatedAt:        s.now(),
		}

		// The appointment record is committed before the queue append; a
		// failed append rolls it back so the two mutations land together.
		if !created {
			if err := s.Appointments.Create(appt); err != nil {
				return nil, storageError("create appointment", err)
			}
			created = true
		} else if err := s.Appointments.Update(appt); err != nil {
			rollback()
			return nil, storageError("update appointment", err)
		}

		if _, err := queue.Append(slots, date, slotTime, apptID, s.Policy.Capacity); err != nil {
			rollback()
			return nil, NewError(CodeSlotFull,
				fmt.Sprintf("slot is full, maximum %d appointments per slot", s.Policy.Capacity))
		}

		err = s.Doctors.UpdateSlots(doctor.ID, slots, doctor.SlotsVersion)
		if errors.Is(err, doctorRepo.ErrVersionConflict) {
			// Lost the race on this doctor's slot map; re-read and retry
			// with a fresh position.
			continue
		}
		if err != nil {
			rollback()
			if errors.Is(err, doctorRepo.ErrNotFound) {
				return nil, NewError(CodeNotFound, "doctor not found")
			}
			return nil, storageError("reserve slot", err)
		}

		total := len(slots[date][slotTime])
		s.notifyConfirmed(appt, position)

		return &models.BookingResult{
			AppointmentID:    apptID,
			QueuePosition:    position,
			TotalInSlot:      total,
			EstimatedTime:    estimated,
			SuggestedArrival: arrival,
		}, nil
	}

	rollback()
	return nil, NewError(CodeStorageUnavailable,
		"could not reserve slot due to concurrent updates, please retry")
}

// notifyConfirmed dispatches the confirmation push outside the critical
// section. Failures are logged and never fail the booking.
func (s *DefaultBookingService) notifyConfirmed(appt *models.Appointment, position int) {
	if s.Notifier == nil {
		return
	}
	go func() {
		if err := s.Notifier.NotifyBookingConfirmed(context.Background(), appt, position); err != nil {
			utils.GetLogger().Warn("failed to send booking confirmation",
				zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}()
}

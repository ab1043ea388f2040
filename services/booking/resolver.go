package booking

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"mediq/models"
	"mediq/services/clock"
	"mediq/services/queue"
	"mediq/utils"
)

// doctorCacheTTL bounds how stale a listing's queue view may be. Display
// tolerates slight staleness; capacity checks never read the cache.
const doctorCacheTTL = 15 * time.Second

// ListForPatient returns the patient's appointments decorated with live
// queue positions.
func (s *DefaultBookingService) ListForPatient(ctx context.Context, patientID string) ([]models.AppointmentView, error) {
	appts, err := s.Appointments.FindByPatient(patientID)
	if err != nil {
		return nil, storageError("list patient appointments", err)
	}
	return s.buildViews(ctx, appts), nil
}

// ListForDoctor returns the doctor's appointments decorated with live
// queue positions.
func (s *DefaultBookingService) ListForDoctor(ctx context.Context, doctorID string) ([]models.AppointmentView, error) {
	appts, err := s.Appointments.FindByDoctor(doctorID)
	if err != nil {
		return nil, storageError("list doctor appointments", err)
	}
	return s.buildViews(ctx, appts), nil
}

// buildViews attaches queue info to every active appointment. Position is
// always recomputed from the live slot map rather than trusting the cached
// booking-time estimate, so a predecessor's cancellation is reflected on
// the next read. Lookup failures degrade to the front-of-queue default and
// never abort the listing.
func (s *DefaultBookingService) buildViews(ctx context.Context, appts []models.Appointment) []models.AppointmentView {
	views := make([]models.AppointmentView, 0, len(appts))
	doctors := map[string]*models.Doctor{}

	for i := range appts {
		appt := appts[i]
		view := models.AppointmentView{Appointment: appt}

		if appt.Active() {
			doctor, ok := doctors[appt.DoctorID]
			if !ok {
				var err error
				doctor, err = s.doctorForDisplay(ctx, appt.DoctorID)
				if err != nil {
					utils.GetLogger().Warn("could not resolve queue position, using fallback",
						zap.String("appointmentId", appt.ID),
						zap.String("doctorId", appt.DoctorID),
						zap.Error(err))
					doctor = nil
				}
				doctors[appt.DoctorID] = doctor
			}
			s.resolveQueueInfo(&view, doctor)
		}

		views = append(views, view)
	}
	return views
}

// resolveQueueInfo fills a view's queue fields from the doctor's slot map,
// falling back to {1, 0, 1} with the slot time as estimate when the queue
// entry cannot be found.
func (s *DefaultBookingService) resolveQueueInfo(view *models.AppointmentView, doctor *models.Doctor) {
	pos := queue.Position{Position: 1, PeopleAhead: 0, Total: 1, Defaulted: true}
	if doctor != nil {
		pos = queue.PositionOf(doctor.SlotsBooked, view.SlotDate, view.SlotTime, view.ID)
	}

	view.QueuePosition = pos.Position
	view.PeopleAhead = pos.PeopleAhead
	view.TotalInSlot = pos.Total
	view.Defaulted = pos.Defaulted

	if pos.Defaulted {
		view.EstimatedTime = view.SlotTime
	} else if est, err := clock.EstimateServiceTime(view.SlotTime, pos.Position, s.Policy.ServiceMinutes); err == nil {
		view.EstimatedTime = est
	} else {
		view.EstimatedTime = view.SlotTime
	}
	if arrival, err := clock.SuggestedArrival(view.EstimatedTime, s.Policy.ArrivalLeadMinutes); err == nil {
		view.SuggestedArrival = arrival
	}
}

// doctorForDisplay reads a doctor for the listing path, served from the
// short-TTL cache when one is configured.
func (s *DefaultBookingService) doctorForDisplay(ctx context.Context, doctorID string) (*models.Doctor, error) {
	if s.Cache == nil {
		return s.Doctors.GetByID(doctorID)
	}

	key := "doctor:display:" + doctorID
	if raw, err := s.Cache.Get(ctx, key).Result(); err == nil {
		var doctor models.Doctor
		if err := json.Unmarshal([]byte(raw), &doctor); err == nil {
			return &doctor, nil
		}
	}

	doctor, err := s.Doctors.GetByID(doctorID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(doctor); err == nil {
		if err := s.Cache.Set(ctx, key, data, doctorCacheTTL).Err(); err != nil {
			utils.GetLogger().Debug("doctor display cache write failed", zap.Error(err))
		}
	}
	return doctor, nil
}

package booking

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"mediq/config"
	appointmentRepo "mediq/database/repository/appointment"
	doctorRepo "mediq/database/repository/doctor"
	patientRepo "mediq/database/repository/patient"
	"mediq/services/notification"
)

// slotWriteRetries bounds the optimistic-concurrency retry loop for slot
// map writes. Conflicts only arise from simultaneous bookings or
// cancellations on the same doctor, so contention is short-lived.
const slotWriteRetries = 3

// validSlotTimes is the fixed whitelist of bookable slots: hourly,
// 9:00 AM through 7:00 PM.
var validSlotTimes = map[string]struct{}{
	"09:00 AM": {}, "10:00 AM": {}, "11:00 AM": {}, "12:00 PM": {},
	"01:00 PM": {}, "02:00 PM": {}, "03:00 PM": {}, "04:00 PM": {},
	"05:00 PM": {}, "06:00 PM": {}, "07:00 PM": {},
}

// ValidSlotTime reports whether t is a bookable slot time.
func ValidSlotTime(t string) bool {
	_, ok := validSlotTimes[t]
	return ok
}

// DefaultBookingService implements Service on top of the doctor,
// appointment and patient repositories.
type DefaultBookingService struct {
	Doctors      doctorRepo.DoctorRepository
	Appointments appointmentRepo.AppointmentRepository
	Patients     patientRepo.PatientRepository
	Notifier     notification.Service

	// Cache optionally serves doctor snapshots on the listing path with a
	// short TTL. Booking and rebalancing always read through to storage.
	Cache *redis.Client

	// Tasks optionally enqueues "you're next" reminder jobs after a
	// rebalance promotes a new second-in-line.
	Tasks *asynq.Client

	Policy config.QueuePolicy

	// Now is a seam for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

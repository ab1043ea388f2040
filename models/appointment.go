package models

import "time"

// PatientStatus is the patient-reported progress of an appointment. Any
// listed value may be set in any order; there is no enforced transition
// graph.
type PatientStatus string

const (
	StatusWaiting        PatientStatus = "waiting"
	StatusOnMyWay        PatientStatus = "on-my-way"
	StatusArrived        PatientStatus = "arrived"
	StatusInConsultation PatientStatus = "in-consultation"
	StatusCompleted      PatientStatus = "completed"
)

// Valid reports whether s is one of the accepted patient statuses.
func (s PatientStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusOnMyWay, StatusArrived, StatusInConsultation, StatusCompleted:
		return true
	}
	return false
}

// DoctorSnapshot is the doctor display data embedded in an appointment
// at booking time, so listings survive later profile edits.
type DoctorSnapshot struct {
	ID         string  `bson:"id" json:"id"`
	Name       string  `bson:"name" json:"name"`
	Speciality string  `bson:"speciality" json:"speciality"`
	Degree     string  `bson:"degree,omitempty" json:"degree,omitempty"`
	Image      string  `bson:"image,omitempty" json:"image,omitempty"`
	Fees       float64 `bson:"fees" json:"fees"`
	Address    Address `bson:"address" json:"address"`
}

// PatientSnapshot is the patient display data embedded in an appointment.
type PatientSnapshot struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
}

// Appointment is a booked slot-queue entry. It is never physically
// deleted: cancellation and completion are soft flags, and the id is
// removed from the doctor's slot queue instead.
type Appointment struct {
	ID        string `bson:"id" json:"id"`
	DoctorID  string `bson:"doctor_id" json:"doctorId"`
	PatientID string `bson:"patient_id" json:"patientId"`

	Doctor  DoctorSnapshot  `bson:"doctor" json:"doctor"`
	Patient PatientSnapshot `bson:"patient" json:"patient"`
	Amount  float64         `bson:"amount" json:"amount"`

	SlotDate string `bson:"slot_date" json:"slotDate"` // canonical YYYY-MM-DD
	SlotTime string `bson:"slot_time" json:"slotTime"` // e.g. "10:00 AM"

	// Booking-time projections. Listings recompute these from the live
	// queue; the stored values are only the snapshot confirmed to the
	// patient when the slot was reserved.
	EstimatedTime    string `bson:"estimated_time,omitempty" json:"estimatedTime,omitempty"`
	SuggestedArrival string `bson:"suggested_arrival,omitempty" json:"suggestedArrival,omitempty"`

	Cancelled   bool `bson:"cancelled" json:"cancelled"`
	IsCompleted bool `bson:"is_completed" json:"isCompleted"`
	Payment     bool `bson:"payment" json:"payment"`

	PatientStatus   PatientStatus `bson:"patient_status" json:"patientStatus"`
	StatusUpdatedAt time.Time     `bson:"status_updated_at,omitempty" json:"statusUpdatedAt,omitempty"`

	// NotificationSent tracks the "you're next" push. It is reset to
	// false when the appointment is promoted to second-in-line by a
	// cancellation or completion ahead of it.
	NotificationSent bool `bson:"notification_sent" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Active reports whether the appointment still occupies a queue entry.
func (a *Appointment) Active() bool {
	return !a.Cancelled && !a.IsCompleted
}

// AppointmentView is an appointment decorated with live queue data for
// listing responses. Defaulted marks positions that could not be resolved
// from the doctor's slot map and fell back to front-of-queue.
type AppointmentView struct {
	Appointment
	QueuePosition int  `json:"queuePosition,omitempty"`
	PeopleAhead   int  `json:"peopleAhead"`
	TotalInSlot   int  `json:"totalInSlot,omitempty"`
	Defaulted     bool `json:"queueDefaulted,omitempty"`
}

// BookingResult is returned to the patient when a slot is reserved.
type BookingResult struct {
	AppointmentID    string `json:"appointmentId"`
	QueuePosition    int    `json:"queuePosition"`
	TotalInSlot      int    `json:"totalInSlot"`
	EstimatedTime    string `json:"estimatedTime"`
	SuggestedArrival string `json:"suggestedArrival"`
}

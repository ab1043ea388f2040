package models

import "time"

// SlotQueue is the ordered list of appointment IDs booked into one
// (date, time) slot. Insertion order is queue order is call order.
type SlotQueue []string

// DaySlots maps a 12-hour clock label (e.g. "10:00 AM") to its queue.
type DaySlots map[string]SlotQueue

// SlotMap maps a canonical "YYYY-MM-DD" date key to that day's slots.
// Embedded in the doctor document, it is the single source of truth for
// queue membership and order; per-appointment position fields are caches
// derived from it. Empty time queues and empty date maps are pruned as
// soon as their last entry is removed.
type SlotMap map[string]DaySlots

// Address is a doctor's clinic address.
type Address struct {
	Line1 string `bson:"line1" json:"line1"`
	Line2 string `bson:"line2,omitempty" json:"line2,omitempty"`
}

// Doctor represents a doctor profile together with its booked slot queues.
type Doctor struct {
	ID         string  `bson:"id" json:"id"`
	Name       string  `bson:"name" json:"name"`
	Email      string  `bson:"email" json:"email"`
	Speciality string  `bson:"speciality" json:"speciality"`
	Degree     string  `bson:"degree" json:"degree"`
	Experience string  `bson:"experience" json:"experience"`
	About      string  `bson:"about" json:"about"`
	Fees       float64 `bson:"fees" json:"fees"`
	Address    Address `bson:"address" json:"address"`
	Image      string  `bson:"image,omitempty" json:"image,omitempty"`
	Available  bool    `bson:"available" json:"available"`

	// SlotsBooked holds the per-slot appointment queues. SlotsVersion is
	// bumped on every slot-map write and backs the optimistic concurrency
	// check that serializes mutations to a single doctor's queues.
	SlotsBooked  SlotMap `bson:"slots_booked,omitempty" json:"slots_booked,omitempty"`
	SlotsVersion int     `bson:"slots_version" json:"-"`

	FCMToken  string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// DoctorDashboard aggregates a doctor's appointment history for the panel.
type DoctorDashboard struct {
	Earnings           float64       `json:"earnings"`
	Appointments       int           `json:"appointments"`
	Patients           int           `json:"patients"`
	LatestAppointments []Appointment `json:"latestAppointments"`
}

package models

import "time"

// Patient represents a patient account. Registration and authentication
// are handled by an external service; this record only carries what the
// booking engine needs for display and push delivery.
type Patient struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Gender    string    `bson:"gender,omitempty" json:"gender,omitempty"`
	DOB       string    `bson:"dob,omitempty" json:"dob,omitempty"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	FCMToken  string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

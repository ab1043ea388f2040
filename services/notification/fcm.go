package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	patientRepo "mediq/database/repository/patient"
	"mediq/models"
	"mediq/utils"
)

// FCMNotificationService is the production implementation, delivering
// pushes over Firebase Cloud Messaging.
type FCMNotificationService struct {
	Patients patientRepo.PatientRepository
}

func NewFCMNotificationService(patients patientRepo.PatientRepository) (*FCMNotificationService, error) {
	if patients == nil {
		return nil, fmt.Errorf("notification service initialization error: patient repository is nil")
	}
	return &FCMNotificationService{Patients: patients}, nil
}

func (s *FCMNotificationService) NotifyBookingConfirmed(ctx context.Context, appt *models.Appointment, position int) error {
	title := "Appointment booked"
	body := fmt.Sprintf(
		"Dr. %s on %s at %s. You are number %d in line; estimated time %s, suggested arrival %s.",
		appt.Doctor.Name, appt.SlotDate, appt.SlotTime,
		position, appt.EstimatedTime, appt.SuggestedArrival,
	)
	return s.push(ctx, appt.PatientID, title, body, map[string]string{
		"type":          "booking_confirmed",
		"appointmentId": appt.ID,
	})
}

func (s *FCMNotificationService) NotifyNextInLine(ctx context.Context, appt *models.Appointment) error {
	title := "You're next"
	body := fmt.Sprintf(
		"Dr. %s will see you shortly. Please make your way to the clinic for your %s appointment.",
		appt.Doctor.Name, appt.SlotTime,
	)
	return s.push(ctx, appt.PatientID, title, body, map[string]string{
		"type":          "next_in_line",
		"appointmentId": appt.ID,
	})
}

// push looks up the patient's FCM token and sends a message.
func (s *FCMNotificationService) push(ctx context.Context, patientID, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("push: FCM client not initialized")
	}

	p, err := s.Patients.GetByID(patientID)
	if err != nil {
		return fmt.Errorf("push: could not find patient %s: %w", patientID, err)
	}
	if p.FCMToken == "" {
		return fmt.Errorf("push: patient %s has no FCM token", patientID)
	}

	msg := &messaging.Message{
		Token: p.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("push: failed to send FCM message: %w", err)
	}
	return nil
}

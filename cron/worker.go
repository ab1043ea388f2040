package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"mediq/config"
	appointmentRepo "mediq/database/repository/appointment"
	"mediq/services/booking"
	"mediq/services/notification"
)

// NewQueueClient returns an asynq client for enqueuing reminder tasks.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
}

// InitReminderWorker runs the async reminder worker in the background. It
// delivers "you're next" pushes for appointments promoted to
// second-in-line by a queue rebalance.
func InitReminderWorker(appts appointmentRepo.AppointmentRepository, notifSvc notification.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(booking.TaskTypeNextInLine, handleNextInLineTask(appts, notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleNextInLineTask sends the "you're next" push for a promoted
// appointment. The flag flips to true only after a successful send, so a
// failed delivery is retried on the next task; appointments that left the
// queue or were already notified are skipped.
func handleNextInLineTask(appts appointmentRepo.AppointmentRepository, notifSvc notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p struct {
			AppointmentID string `json:"appointmentId"`
		}
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		appt, err := appts.GetByID(p.AppointmentID)
		if err != nil {
			log.Printf("[ReminderHandler] appointment %s unavailable: %v", p.AppointmentID, err)
			return err
		}
		if !appt.Active() || appt.NotificationSent {
			return nil
		}

		if err := notifSvc.NotifyNextInLine(ctx, appt); err != nil {
			log.Printf("[ReminderHandler] failed to send next-in-line push for %s: %v", appt.ID, err)
			return err
		}
		return appts.SetNotificationSent(appt.ID, true)
	}
}

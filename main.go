package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mediq/config"
	"mediq/cron"
	"mediq/database"
	appointmentRepo "mediq/database/repository/appointment"
	doctorRepo "mediq/database/repository/doctor"
	patientRepo "mediq/database/repository/patient"
	"mediq/handlers"
	"mediq/middleware"
	"mediq/routes"
	"mediq/services/booking"
	"mediq/services/doctor"
	"mediq/services/notification"
	"mediq/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	doctors := doctorRepo.NewMongoDoctorRepo()
	appointments := appointmentRepo.NewMongoAppointmentRepo()
	patients := patientRepo.NewMongoPatientRepo()

	// services.
	notifSvc, err := notification.NewFCMNotificationService(patients)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	tasks := cron.NewQueueClient()
	defer tasks.Close() //nolint:errcheck

	bookingService := &booking.DefaultBookingService{
		Doctors:      doctors,
		Appointments: appointments,
		Patients:     patients,
		Notifier:     notifSvc,
		Cache:        utils.GetCacheClient(),
		Tasks:        tasks,
		Policy:       config.Policy(),
	}

	doctorService := &doctor.DefaultDoctorService{
		Repo:         doctors,
		Appointments: appointments,
	}

	// Background reminder worker.
	cron.InitReminderWorker(appointments, notifSvc)

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	doctorHandler := handlers.NewDoctorHandler(doctorService)

	routes.RegisterRoutes(router, bookingHandler, doctorHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

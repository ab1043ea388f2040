package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mediq/handlers"
	"mediq/middleware"
)

// RegisterRoutes wires all endpoints onto the gin engine.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler, doctorHandler *handlers.DoctorHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Patient-ID", "X-Doctor-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Public directory.
	r.GET("/api/doctors", doctorHandler.ListDoctors)

	// Patient-facing booking endpoints.
	patient := r.Group("/api/patient")
	patient.Use(middleware.RequirePatient())
	{
		patient.POST("/appointments", bookingHandler.BookAppointment)
		patient.GET("/appointments", bookingHandler.ListMyAppointments)
		patient.DELETE("/appointments/:id", bookingHandler.CancelAppointment)
		patient.PUT("/appointments/:id/status", bookingHandler.UpdatePatientStatus)
		patient.PUT("/appointments/:id/payment", bookingHandler.MarkPaid)
	}

	// Doctor panel endpoints.
	doctorAPI := r.Group("/api/doctor")
	doctorAPI.Use(middleware.RequireDoctor())
	{
		doctorAPI.GET("/appointments", bookingHandler.DoctorAppointments)
		doctorAPI.DELETE("/appointments/:id", bookingHandler.DoctorCancelAppointment)
		doctorAPI.PUT("/appointments/:id/complete", bookingHandler.DoctorCompleteAppointment)
		doctorAPI.GET("/profile", doctorHandler.Profile)
		doctorAPI.PUT("/profile", doctorHandler.UpdateProfile)
		doctorAPI.PUT("/availability", doctorHandler.ChangeAvailability)
		doctorAPI.GET("/dashboard", doctorHandler.Dashboard)
	}
}

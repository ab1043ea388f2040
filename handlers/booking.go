package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mediq/middleware"
	"mediq/models"
	"mediq/services/booking"
)

// BookingHandler exposes the slot-queue booking engine over HTTP.
type BookingHandler struct {
	Svc    booking.Service
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.Service, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// statusForCode maps booking error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case booking.CodeInvalidTimeFormat, booking.CodeDateOutOfWindow,
		booking.CodeInvalidSlotTime, booking.CodeInvalidStatus:
		return http.StatusBadRequest
	case booking.CodeUnauthorized:
		return http.StatusForbidden
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeSlotFull, booking.CodeDoctorUnavailable:
		return http.StatusConflict
	case booking.CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *BookingHandler) writeError(c *gin.Context, err error) {
	if code := booking.ErrCode(err); code != "" {
		c.JSON(statusForCode(code), gin.H{"error": err.Error(), "code": code})
		return
	}
	h.Logger.Error("unexpected booking error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// BookAppointment reserves a queue position in a doctor's slot.
func (h *BookingHandler) BookAppointment(c *gin.Context) {
	var input struct {
		DoctorID string `json:"doctorId" binding:"required"`
		SlotDate string `json:"slotDate" binding:"required"`
		SlotTime string `json:"slotTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	patientID := c.GetString(middleware.ContextPatientID)
	result, err := h.Svc.BookAppointment(c.Request.Context(), patientID, input.DoctorID, input.SlotDate, input.SlotTime)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Appointment booked",
		"appointmentId":    result.AppointmentID,
		"queuePosition":    result.QueuePosition,
		"totalInSlot":      result.TotalInSlot,
		"estimatedTime":    result.EstimatedTime,
		"suggestedArrival": result.SuggestedArrival,
	})
}

// CancelAppointment cancels the acting patient's appointment.
func (h *BookingHandler) CancelAppointment(c *gin.Context) {
	patientID := c.GetString(middleware.ContextPatientID)
	if err := h.Svc.CancelByPatient(c.Request.Context(), patientID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

// ListMyAppointments lists the acting patient's appointments with live
// queue positions.
func (h *BookingHandler) ListMyAppointments(c *gin.Context) {
	patientID := c.GetString(middleware.ContextPatientID)
	views, err := h.Svc.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

// UpdatePatientStatus records the acting patient's progress update.
func (h *BookingHandler) UpdatePatientStatus(c *gin.Context) {
	var input struct {
		Status models.PatientStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	patientID := c.GetString(middleware.ContextPatientID)
	if err := h.Svc.UpdatePatientStatus(c.Request.Context(), patientID, c.Param("id"), input.Status); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// MarkPaid flips the payment flag after the external payment collaborator
// verified the charge.
func (h *BookingHandler) MarkPaid(c *gin.Context) {
	if err := h.Svc.MarkPaid(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
}

// DoctorAppointments lists the acting doctor's appointments with live
// queue positions.
func (h *BookingHandler) DoctorAppointments(c *gin.Context) {
	doctorID := c.GetString(middleware.ContextDoctorID)
	views, err := h.Svc.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

// DoctorCancelAppointment cancels an appointment from the doctor panel.
func (h *BookingHandler) DoctorCancelAppointment(c *gin.Context) {
	doctorID := c.GetString(middleware.ContextDoctorID)
	if err := h.Svc.CancelByDoctor(c.Request.Context(), doctorID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

// DoctorCompleteAppointment marks an appointment completed from the
// doctor panel.
func (h *BookingHandler) DoctorCompleteAppointment(c *gin.Context) {
	doctorID := c.GetString(middleware.ContextDoctorID)
	if err := h.Svc.Complete(c.Request.Context(), doctorID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment completed"})
}

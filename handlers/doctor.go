package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mediq/middleware"
	"mediq/models"
	"mediq/services/doctor"
)

// DoctorHandler exposes the doctor-panel operations.
type DoctorHandler struct {
	Svc doctor.Service
}

func NewDoctorHandler(svc doctor.Service) *DoctorHandler {
	return &DoctorHandler{Svc: svc}
}

// ListDoctors returns the public doctor directory.
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.Svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list doctors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

// Profile returns the acting doctor's profile.
func (h *DoctorHandler) Profile(c *gin.Context) {
	doctorID := c.GetString(middleware.ContextDoctorID)
	profile, err := h.Svc.GetProfile(c.Request.Context(), doctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile patches the acting doctor's editable fields.
func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	var input struct {
		Fees      float64        `json:"fees" binding:"required"`
		Address   models.Address `json:"address"`
		Available bool           `json:"available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	doctorID := c.GetString(middleware.ContextDoctorID)
	if err := h.Svc.UpdateProfile(c.Request.Context(), doctorID, input.Fees, input.Address, input.Available); err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// ChangeAvailability toggles the acting doctor's availability.
func (h *DoctorHandler) ChangeAvailability(c *gin.Context) {
	doctorID := c.GetString(middleware.ContextDoctorID)
	available, err := h.Svc.ChangeAvailability(c.Request.Context(), doctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability changed", "available": available})
}

// Dashboard returns the acting doctor's aggregated panel data.
func (h *DoctorHandler) Dashboard(c *gin.Context) {
	doctorID := c.GetString(middleware.ContextDoctorID)
	data, err := h.Svc.Dashboard(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": data})
}

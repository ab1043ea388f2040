package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authentication is handled by an upstream gateway that verifies tokens
// and forwards the acting principal in trusted headers. These middlewares
// only lift that identity into the request context; ownership checks stay
// in the booking service.

const (
	// ContextPatientID is the gin context key for the acting patient.
	ContextPatientID = "patientID"
	// ContextDoctorID is the gin context key for the acting doctor.
	ContextDoctorID = "doctorID"

	headerPatientID = "X-Patient-ID"
	headerDoctorID  = "X-Doctor-ID"
)

// RequirePatient rejects requests without a patient identity.
func RequirePatient() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerPatientID)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing patient identity"})
			return
		}
		c.Set(ContextPatientID, id)
		c.Next()
	}
}

// RequireDoctor rejects requests without a doctor identity.
func RequireDoctor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerDoctorID)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing doctor identity"})
			return
		}
		c.Set(ContextDoctorID, id)
		c.Next()
	}
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/recovery-api/internal/middleware"
	"github.com/noah-isme/recovery-api/internal/models"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
	"github.com/noah-isme/recovery-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentClaims(c)
}

// patientFromPath returns :id after checking the caller may touch that patient's records.
// Routes also run PatientAccess.
func patientFromPath(c *gin.Context) (string, bool) {
	patientID := c.Param("id")
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	if !claims.CanAccessPatient(patientID) {
		response.Error(c, appErrors.ErrForbidden)
		return "", false
	}
	return patientID, true
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

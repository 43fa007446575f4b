package dto

import (
	"time"

	"github.com/noah-isme/recovery-api/internal/models"
)

// ReportRequest captures POST /reports/generate payload.
type ReportRequest struct {
	PatientID string              `json:"patientId" validate:"required"`
	Format    models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	From      *time.Time          `json:"from,omitempty"`
	To        *time.Time          `json:"to,omitempty"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}

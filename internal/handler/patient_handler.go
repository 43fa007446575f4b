package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/pkg/response"
)

type assessmentService interface {
	Submit(ctx context.Context, patientID string, req dto.SubmitAssessmentRequest) (*models.Assessment, error)
	List(ctx context.Context, patientID string) ([]models.Assessment, error)
}

type checkInService interface {
	Upsert(ctx context.Context, patientID string, req dto.UpsertCheckInRequest) (*models.CheckIn, error)
	List(ctx context.Context, patientID string, query dto.CheckInQuery) ([]models.CheckIn, error)
}

type profileService interface {
	GetProfile(ctx context.Context, patientID string) (*models.PatientProfile, error)
	UpsertProfile(ctx context.Context, patientID string, req dto.UpsertProfileRequest) (*models.PatientProfile, error)
}

// PatientHandler serves patient-owned records: assessments, check-ins and the profile.
type PatientHandler struct {
	assessments assessmentService
	checkIns    checkInService
	profiles    profileService
}

// NewPatientHandler constructs the handler.
func NewPatientHandler(assessments assessmentService, checkIns checkInService, profiles profileService) *PatientHandler {
	return &PatientHandler{assessments: assessments, checkIns: checkIns, profiles: profiles}
}

// SubmitAssessment godoc
// @Summary Submit an ODI questionnaire
// @Tags Patients
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param payload body dto.SubmitAssessmentRequest true "Section answers"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /patients/{id}/assessments [post]
func (h *PatientHandler) SubmitAssessment(c *gin.Context) {
	patientID, ok := patientFromPath(c)
	if !ok {
		return
	}
	var req dto.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid assessment payload"))
		return
	}
	assessment, err := h.assessments.Submit(c.Request.Context(), patientID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assessment)
}

// ListAssessments godoc
// @Summary List ODI assessments
// @Tags Patients
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Envelope
// @Router /patients/{id}/assessments [get]
func (h *PatientHandler) ListAssessments(c *gin.Context) {
	patientID, ok := patientFromPath(c)
	if !ok {
		return
	}
	items, err := h.assessments.List(c.Request.Context(), patientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, &models.Pagination{Page: 1, PageSize: len(items), TotalCount: len(items)})
}

// UpsertCheckIn godoc
// @Summary Record a daily check-in
// @Tags Patients
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param payload body dto.UpsertCheckInRequest true "Pain, mood and notes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /patients/{id}/checkins [put]
func (h *PatientHandler) UpsertCheckIn(c *gin.Context) {
	patientID, ok := patientFromPath(c)
	if !ok {
		return
	}
	var req dto.UpsertCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid check-in payload"))
		return
	}
	checkIn, err := h.checkIns.Upsert(c.Request.Context(), patientID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, checkIn, nil)
}

// ListCheckIns godoc
// @Summary List daily check-ins
// @Tags Patients
// @Produce json
// @Param id path string true "Patient ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /patients/{id}/checkins [get]
func (h *PatientHandler) ListCheckIns(c *gin.Context) {
	patientID, ok := patientFromPath(c)
	if !ok {
		return
	}
	var query dto.CheckInQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid check-in filter"))
		return
	}
	items, err := h.checkIns.List(c.Request.Context(), patientID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, &models.Pagination{Page: 1, PageSize: len(items), TotalCount: len(items)})
}

// GetProfile godoc
// @Summary Read the onboarding profile
// @Tags Patients
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /patients/{id}/profile [get]
func (h *PatientHandler) GetProfile(c *gin.Context) {
	patientID, ok := patientFromPath(c)
	if !ok {
		return
	}
	profile, err := h.profiles.GetProfile(c.Request.Context(), patientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpsertProfile godoc
// @Summary Create or update the onboarding profile
// @Tags Patients
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param payload body dto.UpsertProfileRequest true "Treatment details"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /patients/{id}/profile [put]
func (h *PatientHandler) UpsertProfile(c *gin.Context) {
	patientID, ok := patientFromPath(c)
	if !ok {
		return
	}
	var req dto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid profile payload"))
		return
	}
	profile, err := h.profiles.UpsertProfile(c.Request.Context(), patientID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

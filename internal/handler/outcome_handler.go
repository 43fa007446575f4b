package handler

import (
	"context"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/middleware"
	"github.com/noah-isme/recovery-api/internal/models"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
	"github.com/noah-isme/recovery-api/pkg/response"
)

type outcomeService interface {
	Compute(ctx context.Context, patientID string) (*models.AnalyticsSnapshot, error)
	Dashboard(ctx context.Context, patientID string) (*models.OutcomeDashboard, error)
	Benchmark(ctx context.Context, score float64, treatmentType models.TreatmentType, weeks int) (*models.BenchmarkComparison, bool, error)
	FlushBenchmarkCache(ctx context.Context)
}

// OutcomeHandler exposes the outcome analytics endpoints.
type OutcomeHandler struct {
	outcomes outcomeService
}

// NewOutcomeHandler constructs the handler.
func NewOutcomeHandler(outcomes outcomeService) *OutcomeHandler {
	return &OutcomeHandler{outcomes: outcomes}
}

// Snapshot godoc
// @Summary Compute outcome snapshot
// @Description Time to MCID, trajectory slope, pain-function correlation, weeks since baseline and plateau flag
// @Tags Outcomes
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /patients/{id}/outcomes [get]
func (h *OutcomeHandler) Snapshot(c *gin.Context) {
	patientID, ok := patientFromPath(c)
	if !ok {
		return
	}
	snapshot, err := h.outcomes.Compute(c.Request.Context(), patientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil, middleware.ExtractMeta(c))
}

// Dashboard godoc
// @Summary Outcome dashboard
// @Description Snapshot, benchmark comparison of the latest score and insights
// @Tags Outcomes
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /patients/{id}/outcomes/dashboard [get]
func (h *OutcomeHandler) Dashboard(c *gin.Context) {
	patientID, ok := patientFromPath(c)
	if !ok {
		return
	}
	dashboard, err := h.outcomes.Dashboard(c.Request.Context(), patientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil, middleware.ExtractMeta(c))
}

// Benchmark godoc
// @Summary Compare a score to population benchmarks
// @Tags Outcomes
// @Produce json
// @Param score query number true "ODI percentage score"
// @Param treatmentType query string true "Treatment type"
// @Param weeks query int true "Weeks post treatment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /benchmarks [get]
func (h *OutcomeHandler) Benchmark(c *gin.Context) {
	var query dto.BenchmarkQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "score, treatmentType and weeks are required"))
		return
	}
	if query.Score == nil || query.Weeks == nil || query.TreatmentType == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "score, treatmentType and weeks are required"))
		return
	}
	if score := *query.Score; math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 100 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "score must be between 0 and 100"))
		return
	}

	comparison, cacheHit, err := h.outcomes.Benchmark(c.Request.Context(), *query.Score, query.TreatmentType, *query.Weeks)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	if comparison == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no benchmark available for this treatment and timepoint"))
		return
	}
	response.JSON(c, http.StatusOK, dto.BenchmarkResponse{
		Score:         *query.Score,
		TreatmentType: query.TreatmentType,
		Weeks:         *query.Weeks,
		Comparison:    comparison,
	}, nil, middleware.ExtractMeta(c))
}

// FlushBenchmarkCache godoc
// @Summary Drop cached benchmark rows
// @Tags Outcomes
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /benchmarks/cache [delete]
func (h *OutcomeHandler) FlushBenchmarkCache(c *gin.Context) {
	h.outcomes.FlushBenchmarkCache(c.Request.Context())
	response.NoContent(c)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumetrics-ng/results-api/internal/service"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
	"github.com/edumetrics-ng/results-api/pkg/response"
)

// AnalyticsHandler exposes performance analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	summaries *service.SummaryService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, summaries *service.SummaryService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, summaries: summaries}
}

// StudentPerformance godoc
// @Summary Multi-term performance report for one student
// @Tags Analytics
// @Produce json
// @Param id path string true "Student"
// @Param sessionId query string true "Academic session"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/students/{id} [get]
func (h *AnalyticsHandler) StudentPerformance(c *gin.Context) {
	tenant, _, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "sessionId is required"))
		return
	}
	report, err := h.analytics.StudentPerformance(c.Request.Context(), tenant, c.Param("id"), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// TermSummary godoc
// @Summary Stored term summary for one student
// @Tags Analytics
// @Produce json
// @Param id path string true "Student"
// @Param termId query string true "Term"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/students/{id}/summary [get]
func (h *AnalyticsHandler) TermSummary(c *gin.Context) {
	tenant, _, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	summary, err := h.summaries.Get(c.Request.Context(), tenant, c.Param("id"), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumetrics-ng/results-api/internal/models"
	"github.com/edumetrics-ng/results-api/internal/service"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
	"github.com/edumetrics-ng/results-api/pkg/response"
)

// ResultProcessor is the slice of the result service the handler consumes.
type ResultProcessor interface {
	ProcessBatch(ctx context.Context, tenant models.TenantContext, req service.BatchRequest) (*service.BatchOutcome, error)
	Submit(ctx context.Context, tenant models.TenantContext, req service.SubmitRequest, submittedBy string) (*service.SubmitOutcome, error)
	List(ctx context.Context, tenant models.TenantContext, filter models.ResultFilter) ([]models.Result, error)
}

// ResultHandler exposes result entry and submission endpoints.
type ResultHandler struct {
	results ResultProcessor
}

// NewResultHandler constructs handler.
func NewResultHandler(results ResultProcessor) *ResultHandler {
	return &ResultHandler{results: results}
}

// Batch godoc
// @Summary Enter a batch of score entries for one class, subject and term
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.BatchRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /results/batch [post]
func (h *ResultHandler) Batch(c *gin.Context) {
	tenant, _, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	outcome, err := h.results.ProcessBatch(c.Request.Context(), tenant, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Submit godoc
// @Summary Finalise one result sheet with positions and class average
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.SubmitRequest true "Sheet identifier"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/submit [post]
func (h *ResultHandler) Submit(c *gin.Context) {
	tenant, claims, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	outcome, err := h.results.Submit(c.Request.Context(), tenant, req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// List godoc
// @Summary List results
// @Tags Results
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param subjectId query string false "Filter by subject"
// @Param classId query string false "Filter by class"
// @Param termId query string false "Filter by term"
// @Param submittedOnly query bool false "Only submitted results"
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	tenant, _, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := models.ResultFilter{
		StudentID:     c.Query("studentId"),
		SubjectID:     c.Query("subjectId"),
		ClassID:       c.Query("classId"),
		TermID:        c.Query("termId"),
		SubmittedOnly: c.Query("submittedOnly") == "true",
	}
	results, err := h.results.List(c.Request.Context(), tenant, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

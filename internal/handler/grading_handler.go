package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumetrics-ng/results-api/internal/service"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
	"github.com/edumetrics-ng/results-api/pkg/response"
)

// GradingHandler exposes grading table administration endpoints.
type GradingHandler struct {
	grading *service.GradingService
}

// NewGradingHandler constructs handler.
func NewGradingHandler(grading *service.GradingService) *GradingHandler {
	return &GradingHandler{grading: grading}
}

// List godoc
// @Summary List the school's grading tables
// @Tags Grading
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grading-tables [get]
func (h *GradingHandler) List(c *gin.Context) {
	tenant, _, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	tables, err := h.grading.List(c.Request.Context(), tenant)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tables, nil)
}

// Create godoc
// @Summary Create a grading table
// @Tags Grading
// @Accept json
// @Produce json
// @Param payload body service.CreateGradingTableRequest true "Table definition"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grading-tables [post]
func (h *GradingHandler) Create(c *gin.Context) {
	tenant, _, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateGradingTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	table, err := h.grading.Create(c.Request.Context(), tenant, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, table)
}

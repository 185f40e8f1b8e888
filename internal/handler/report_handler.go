package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumetrics-ng/results-api/internal/service"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
	"github.com/edumetrics-ng/results-api/pkg/response"
)

// ReportHandler exposes report card and broadsheet endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Card godoc
// @Summary Structured report card for one student and term
// @Tags Reports
// @Produce json
// @Param id path string true "Student"
// @Param termId query string true "Term"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/students/{id}/card [get]
func (h *ReportHandler) Card(c *gin.Context) {
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
	card, err := h.reports.StudentReportCard(c.Request.Context(), tenant, c.Param("id"), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, card, nil)
}

// CardPDF godoc
// @Summary Printable report card PDF
// @Tags Reports
// @Produce application/pdf
// @Param id path string true "Student"
// @Param termId query string true "Term"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /reports/students/{id}/card.pdf [get]
func (h *ReportHandler) CardPDF(c *gin.Context) {
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
	card, err := h.reports.StudentReportCard(c.Request.Context(), tenant, c.Param("id"), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.reports.RenderReportCardPDF(card)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("report-card-%s-%s.pdf", card.AdmissionNumber, card.TermID)
	response.File(c, "application/pdf", filename, payload)
}

// Broadsheet godoc
// @Summary Class broadsheet CSV for a term
// @Tags Reports
// @Produce text/csv
// @Param classId query string true "Class"
// @Param termId query string true "Term"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /reports/broadsheet.csv [get]
func (h *ReportHandler) Broadsheet(c *gin.Context) {
	tenant, _, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classID, termID := c.Query("classId"), c.Query("termId")
	if classID == "" || termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId and termId are required"))
		return
	}
	payload, err := h.reports.ClassBroadsheetCSV(c.Request.Context(), tenant, classID, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("broadsheet-%s-%s.csv", classID, termID)
	response.File(c, "text/csv", filename, payload)
}

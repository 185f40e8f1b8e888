package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumetrics-ng/results-api/internal/models"
	"github.com/edumetrics-ng/results-api/internal/service"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
	"github.com/edumetrics-ng/results-api/pkg/response"
)

// RankingHandler exposes class and subject ranking endpoints.
type RankingHandler struct {
	rankings *service.RankingService
}

// NewRankingHandler constructs handler.
func NewRankingHandler(rankings *service.RankingService) *RankingHandler {
	return &RankingHandler{rankings: rankings}
}

// Class godoc
// @Summary Rank a class by average score for a term
// @Tags Rankings
// @Produce json
// @Param classId query string true "Class"
// @Param termId query string true "Term"
// @Param studentId query string false "Return a single student's position"
// @Success 200 {object} response.Envelope
// @Router /rankings/class [get]
func (h *RankingHandler) Class(c *gin.Context) {
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

	if studentID := c.Query("studentId"); studentID != "" {
		info, err := h.rankings.ClassPosition(c.Request.Context(), tenant, classID, termID, studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, info, nil)
		return
	}

	entries, err := h.rankings.RankClass(c.Request.Context(), tenant, classID, termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Subject godoc
// @Summary Rank one subject sheet within a class and term
// @Tags Rankings
// @Produce json
// @Param classId query string true "Class"
// @Param subjectId query string true "Subject"
// @Param termId query string true "Term"
// @Param studentId query string false "Return a single student's position"
// @Success 200 {object} response.Envelope
// @Router /rankings/subject [get]
func (h *RankingHandler) Subject(c *gin.Context) {
	tenant, _, ok := tenantFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	scope := models.ResultScope{
		ClassID:   c.Query("classId"),
		SubjectID: c.Query("subjectId"),
		TermID:    c.Query("termId"),
	}
	if scope.ClassID == "" || scope.SubjectID == "" || scope.TermID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId, subjectId and termId are required"))
		return
	}

	if studentID := c.Query("studentId"); studentID != "" {
		info, err := h.rankings.SubjectPosition(c.Request.Context(), tenant, scope, studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, info, nil)
		return
	}

	entries, err := h.rankings.RankSubject(c.Request.Context(), tenant, scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

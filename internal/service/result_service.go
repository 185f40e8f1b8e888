package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edumetrics-ng/results-api/internal/models"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

// roundHalfUp2 rounds to two decimals with halves rounding up, matching how
// scores are published on printed report cards (0.125 -> 0.13, not 0.12).
func roundHalfUp2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ResultStore abstracts result persistence for the result service.
type ResultStore interface {
	List(ctx context.Context, schoolID string, filter models.ResultFilter) ([]models.Result, error)
	BulkUpsert(ctx context.Context, results []models.Result) error
	SubmitScope(ctx context.Context, schoolID string, scope models.ResultScope, classAverage float64, positions map[string]int, submittedBy string, at time.Time) error
}

// TermStore abstracts term lookups.
type TermStore interface {
	FindByID(ctx context.Context, id string) (*models.Term, error)
}

// BatchRequest is one sheet of score entries for a class, subject and term.
type BatchRequest struct {
	ClassID   string              `json:"class_id" validate:"required"`
	SubjectID string              `json:"subject_id" validate:"required"`
	TermID    string              `json:"term_id" validate:"required"`
	Entries   []models.ScoreEntry `json:"entries" validate:"required,min=1"`
}

// BatchRejection reports one rejected entry. Index refers to the entry's
// position in the submitted batch, so callers can correlate rejections even
// when student IDs repeat or are missing.
type BatchRejection struct {
	Index     int    `json:"index"`
	StudentID string `json:"student_id,omitempty"`
	Field     string `json:"field"`
	Code      string `json:"code"`
	Reason    string `json:"reason"`
}

// BatchOutcome summarises a processed batch.
type BatchOutcome struct {
	SuccessCount int              `json:"success_count"`
	Rejections   []BatchRejection `json:"rejections"`
	Results      []models.Result  `json:"results"`
}

// SubmitRequest finalises one result sheet.
type SubmitRequest struct {
	ClassID   string `json:"class_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	TermID    string `json:"term_id" validate:"required"`
}

// SubmitOutcome reports the effect of a sheet submission.
type SubmitOutcome struct {
	SubmittedCount int     `json:"submitted_count"`
	ClassAverage   float64 `json:"class_average"`
}

// ResultService computes, stores and finalises student results.
type ResultService struct {
	results   ResultStore
	terms     TermStore
	grading   *GradingService
	ranking   *RankingService
	summaries *SummaryService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs a result service.
func NewResultService(results ResultStore, terms TermStore, grading *GradingService, ranking *RankingService, summaries *SummaryService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{
		results:   results,
		terms:     terms,
		grading:   grading,
		ranking:   ranking,
		summaries: summaries,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// validateEntry checks one score entry against component ranges. It returns
// the offending field, a machine-readable code and a human-readable reason on
// failure.
func validateEntry(entry models.ScoreEntry) (field, code, reason string, ok bool) {
	if entry.StudentID == "" {
		return "student_id", appErrors.ErrValidation.Code, "student ID is required", false
	}
	if entry.CA1Score < 0 || entry.CA1Score > models.CA1MaxScore {
		return "ca1_score", appErrors.ErrOutOfRangeScore.Code, fmt.Sprintf("CA1 score must be between 0 and %.0f", models.CA1MaxScore), false
	}
	if entry.CA2Score < 0 || entry.CA2Score > models.CA2MaxScore {
		return "ca2_score", appErrors.ErrOutOfRangeScore.Code, fmt.Sprintf("CA2 score must be between 0 and %.0f", models.CA2MaxScore), false
	}
	if entry.ExamScore < 0 || entry.ExamScore > models.ExamMaxScore {
		return "exam_score", appErrors.ErrOutOfRangeScore.Code, fmt.Sprintf("exam score must be between 0 and %.0f", models.ExamMaxScore), false
	}
	return "", "", "", true
}

// ComputeResult derives the weighted total and grade for one validated entry.
// The entry must already have passed validateEntry; out-of-range components
// here indicate a programming error upstream.
func (s *ResultService) ComputeResult(entry models.ScoreEntry, table *models.GradingTable) models.Result {
	total := roundHalfUp2(entry.CA1Score*models.CA1Weight + entry.CA2Score*models.CA2Weight + entry.ExamScore*models.ExamWeight)
	band := s.grading.ResolveGrade(table, total)
	return models.Result{
		StudentID:      entry.StudentID,
		CA1Score:       entry.CA1Score,
		CA2Score:       entry.CA2Score,
		ExamScore:      entry.ExamScore,
		TotalScore:     total,
		Grade:          band.Grade,
		GradePoint:     band.GradePoint,
		TeacherComment: entry.TeacherComment,
	}
}

// ProcessBatch validates and persists a sheet of score entries. Invalid
// entries are rejected individually and reported by batch index; valid
// entries are stored regardless of how many siblings were rejected. Only a
// missing grading table or a locked term aborts the whole batch.
func (s *ResultService) ProcessBatch(ctx context.Context, tenant models.TenantContext, req BatchRequest) (*BatchOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	term, err := s.loadTerm(ctx, tenant, req.TermID)
	if err != nil {
		return nil, err
	}
	if term.IsLocked {
		return nil, appErrors.ErrTermLocked
	}

	table, err := s.grading.DefaultTable(ctx, tenant)
	if err != nil {
		return nil, err
	}

	outcome := &BatchOutcome{Rejections: []BatchRejection{}}
	accepted := make([]models.Result, 0, len(req.Entries))
	for i, entry := range req.Entries {
		field, code, reason, ok := validateEntry(entry)
		if !ok {
			outcome.Rejections = append(outcome.Rejections, BatchRejection{
				Index:     i,
				StudentID: entry.StudentID,
				Field:     field,
				Code:      code,
				Reason:    reason,
			})
			continue
		}
		result := s.ComputeResult(entry, table)
		result.SchoolID = tenant.SchoolID
		result.ClassID = req.ClassID
		result.SubjectID = req.SubjectID
		result.TermID = req.TermID
		accepted = append(accepted, result)
	}

	if len(accepted) > 0 {
		if err := s.results.BulkUpsert(ctx, accepted); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store results")
		}
	}
	outcome.SuccessCount = len(accepted)
	outcome.Results = accepted

	s.metrics.RecordBatchOutcome(len(accepted), len(outcome.Rejections))
	s.logger.Info("result batch processed",
		zap.String("school_id", tenant.SchoolID),
		zap.String("class_id", req.ClassID),
		zap.String("subject_id", req.SubjectID),
		zap.String("term_id", req.TermID),
		zap.Int("accepted", len(accepted)),
		zap.Int("rejected", len(outcome.Rejections)))

	s.afterResultsChanged(ctx, tenant, req.ClassID, req.TermID, accepted)

	return outcome, nil
}

// Submit finalises one result sheet: it freezes subject positions, stamps the
// class average and marks every result on the sheet submitted.
func (s *ResultService) Submit(ctx context.Context, tenant models.TenantContext, req SubmitRequest, submittedBy string) (*SubmitOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	term, err := s.loadTerm(ctx, tenant, req.TermID)
	if err != nil {
		return nil, err
	}
	if term.IsLocked {
		return nil, appErrors.ErrTermLocked
	}

	scope := models.ResultScope{ClassID: req.ClassID, SubjectID: req.SubjectID, TermID: req.TermID}
	sheet, err := s.results.List(ctx, tenant.SchoolID, models.ResultFilter{
		ClassID:   scope.ClassID,
		SubjectID: scope.SubjectID,
		TermID:    scope.TermID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load result sheet")
	}
	if len(sheet) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no results entered for this sheet")
	}

	var sum float64
	for _, r := range sheet {
		sum += r.TotalScore
	}
	classAverage := roundHalfUp2(sum / float64(len(sheet)))
	positions := SubjectPositions(sheet)

	now := time.Now().UTC()
	if err := s.results.SubmitScope(ctx, tenant.SchoolID, scope, classAverage, positions, submittedBy, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "submit result sheet")
	}

	s.logger.Info("result sheet submitted",
		zap.String("school_id", tenant.SchoolID),
		zap.String("class_id", scope.ClassID),
		zap.String("subject_id", scope.SubjectID),
		zap.String("term_id", scope.TermID),
		zap.Int("results", len(sheet)),
		zap.Float64("class_average", classAverage))

	s.afterResultsChanged(ctx, tenant, scope.ClassID, scope.TermID, sheet)

	return &SubmitOutcome{SubmittedCount: len(sheet), ClassAverage: classAverage}, nil
}

// List returns results matching the filter within the caller's school.
func (s *ResultService) List(ctx context.Context, tenant models.TenantContext, filter models.ResultFilter) ([]models.Result, error) {
	start := time.Now()
	results, err := s.results.List(ctx, tenant.SchoolID, filter)
	s.metrics.ObserveDBQuery("results_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list results")
	}
	return results, nil
}

func (s *ResultService) loadTerm(ctx context.Context, tenant models.TenantContext, termID string) (*models.Term, error) {
	term, err := s.terms.FindByID(ctx, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load term")
	}
	if term.SchoolID != tenant.SchoolID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
	}
	return term, nil
}

// afterResultsChanged refreshes derived data once results move: ranking
// caches for the class are dropped and each affected student's term summary
// is recomputed. Failures here are logged, never surfaced, because the
// results themselves are already durable.
func (s *ResultService) afterResultsChanged(ctx context.Context, tenant models.TenantContext, classID, termID string, changed []models.Result) {
	if s.ranking != nil {
		if err := s.ranking.InvalidateClassTerm(ctx, tenant, classID, termID); err != nil {
			s.logger.Warn("ranking cache invalidation failed",
				zap.String("class_id", classID), zap.String("term_id", termID), zap.Error(err))
		}
	}
	if s.summaries == nil {
		return
	}
	seen := make(map[string]struct{}, len(changed))
	for _, r := range changed {
		if _, ok := seen[r.StudentID]; ok {
			continue
		}
		seen[r.StudentID] = struct{}{}
		if _, err := s.summaries.Recompute(ctx, tenant, r.StudentID, termID); err != nil {
			s.logger.Warn("term summary recompute failed",
				zap.String("student_id", r.StudentID), zap.String("term_id", termID), zap.Error(err))
		}
	}
}

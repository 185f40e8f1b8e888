package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/edumetrics-ng/results-api/internal/models"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

// SummaryStore abstracts term summary persistence.
type SummaryStore interface {
	Upsert(ctx context.Context, summary *models.TermSummary) error
	FindByStudentTerm(ctx context.Context, schoolID, studentID, termID string) (*models.TermSummary, error)
	Delete(ctx context.Context, schoolID, studentID, termID string) error
}

// SummaryResultStore abstracts the result queries summaries are built from.
type SummaryResultStore interface {
	ListSubmittedByStudentTerm(ctx context.Context, schoolID, studentID, termID string) ([]models.Result, error)
}

// SummaryService maintains the derived per-(student, term) aggregates.
type SummaryService struct {
	summaries SummaryStore
	results   SummaryResultStore
	ranking   *RankingService
	logger    *zap.Logger
}

// NewSummaryService constructs a summary service.
func NewSummaryService(summaries SummaryStore, results SummaryResultStore, ranking *RankingService, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{summaries: summaries, results: results, ranking: ranking, logger: logger}
}

// Recompute rebuilds the summary for one student and term from scratch. It
// is idempotent: recomputing over unchanged results writes identical values.
// When the student has no submitted results left, any stale summary row is
// removed and (nil, nil) is returned.
func (s *SummaryService) Recompute(ctx context.Context, tenant models.TenantContext, studentID, termID string) (*models.TermSummary, error) {
	results, err := s.results.ListSubmittedByStudentTerm(ctx, tenant.SchoolID, studentID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load student results")
	}
	if len(results) == 0 {
		if err := s.summaries.Delete(ctx, tenant.SchoolID, studentID, termID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "clear stale summary")
		}
		return nil, nil
	}

	var (
		totalScore float64
		gradeSum   float64
		highest    = results[0].TotalScore
		lowest     = results[0].TotalScore
	)
	for _, r := range results {
		totalScore += r.TotalScore
		gradeSum += r.GradePoint
		if r.TotalScore > highest {
			highest = r.TotalScore
		}
		if r.TotalScore < lowest {
			lowest = r.TotalScore
		}
	}

	summary := &models.TermSummary{
		SchoolID:      tenant.SchoolID,
		StudentID:     studentID,
		TermID:        termID,
		TotalSubjects: len(results),
		TotalScore:    roundHalfUp2(totalScore),
		AverageScore:  roundHalfUp2(totalScore / float64(len(results))),
		HighestScore:  highest,
		LowestScore:   lowest,
		GPA:           roundHalfUp2(gradeSum / float64(len(results))),
	}

	if s.ranking != nil {
		classID := results[0].ClassID
		info, err := s.ranking.ClassPosition(ctx, tenant, classID, termID, studentID)
		if err != nil {
			s.logger.Warn("class position lookup failed during summary recompute",
				zap.String("student_id", studentID),
				zap.String("term_id", termID),
				zap.Error(err))
		} else {
			summary.ClassPosition = info.Position
			summary.TotalStudents = info.TotalStudents
		}
	}

	if err := s.summaries.Upsert(ctx, summary); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store term summary")
	}
	return summary, nil
}

// Get returns the stored summary for the (student, term) key.
func (s *SummaryService) Get(ctx context.Context, tenant models.TenantContext, studentID, termID string) (*models.TermSummary, error) {
	summary, err := s.summaries.FindByStudentTerm(ctx, tenant.SchoolID, studentID, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term summary not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load term summary")
	}
	return summary, nil
}

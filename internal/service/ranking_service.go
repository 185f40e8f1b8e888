package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/edumetrics-ng/results-api/internal/models"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

// RankingResultStore abstracts the result queries rankings are built from.
type RankingResultStore interface {
	ListSubmittedByClassTerm(ctx context.Context, schoolID, classID, termID string) ([]models.Result, error)
	ListSubmittedByScope(ctx context.Context, schoolID string, scope models.ResultScope) ([]models.Result, error)
}

// RankingService computes class and subject rankings on demand. Rankings are
// never persisted; only the short-lived cache holds computed standings.
type RankingService struct {
	results  RankingResultStore
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewRankingService constructs a ranking service.
func NewRankingService(results RankingResultStore, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *RankingService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{results: results, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// RankByAverage aggregates submitted results per student and ranks students
// by their average total score, highest first. Students whose published
// averages are equal share a position and the position after a shared one is
// skipped, so three students at [80, 80, 60] rank [1, 1, 3]. Input order
// breaks nothing: aggregation keeps first-appearance order, which the stable
// sort preserves among equals, so equal averages keep a deterministic listing
// order.
func RankByAverage(results []models.Result) []models.RankingEntry {
	type agg struct {
		sum   float64
		count int
	}
	order := make([]string, 0)
	totals := make(map[string]*agg)
	for _, r := range results {
		a, ok := totals[r.StudentID]
		if !ok {
			a = &agg{}
			totals[r.StudentID] = a
			order = append(order, r.StudentID)
		}
		a.sum += r.TotalScore
		a.count++
	}

	entries := make([]models.RankingEntry, 0, len(order))
	for _, studentID := range order {
		a := totals[studentID]
		entries = append(entries, models.RankingEntry{
			StudentID:    studentID,
			AverageScore: roundHalfUp2(a.sum / float64(a.count)),
			SubjectCount: a.count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageScore > entries[j].AverageScore
	})

	for i := range entries {
		if i > 0 && entries[i].AverageScore == entries[i-1].AverageScore {
			entries[i].Position = entries[i-1].Position
		} else {
			entries[i].Position = i + 1
		}
		entries[i].TotalStudents = len(entries)
	}
	return entries
}

// SubjectPositions ranks one result sheet by total score with the same
// shared-position rule as RankByAverage and returns each student's position.
func SubjectPositions(sheet []models.Result) map[string]int {
	ranked := make([]models.Result, len(sheet))
	copy(ranked, sheet)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	positions := make(map[string]int, len(ranked))
	for i, r := range ranked {
		position := i + 1
		if i > 0 && r.TotalScore == ranked[i-1].TotalScore {
			position = positions[ranked[i-1].StudentID]
		}
		positions[r.StudentID] = position
	}
	return positions
}

// RankClass returns the class standing for a term, computed from submitted
// results only.
func (s *RankingService) RankClass(ctx context.Context, tenant models.TenantContext, classID, termID string) ([]models.RankingEntry, error) {
	key := classRankingKey(tenant.SchoolID, classID, termID)
	var cached []models.RankingEntry
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	results, err := s.results.ListSubmittedByClassTerm(ctx, tenant.SchoolID, classID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load class results")
	}
	entries := RankByAverage(results)

	if err := s.cache.Set(ctx, key, entries, s.cacheTTL); err != nil {
		s.logger.Warn("class ranking cache write failed", zap.String("key", key), zap.Error(err))
	}
	return entries, nil
}

// RankSubject returns the standing for one subject sheet in a class and term.
func (s *RankingService) RankSubject(ctx context.Context, tenant models.TenantContext, scope models.ResultScope) ([]models.RankingEntry, error) {
	key := subjectRankingKey(tenant.SchoolID, scope)
	var cached []models.RankingEntry
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	results, err := s.results.ListSubmittedByScope(ctx, tenant.SchoolID, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load subject results")
	}
	entries := RankByAverage(results)

	if err := s.cache.Set(ctx, key, entries, s.cacheTTL); err != nil {
		s.logger.Warn("subject ranking cache write failed", zap.String("key", key), zap.Error(err))
	}
	return entries, nil
}

// ClassPosition answers where a student stands in the class for a term. A
// student with no submitted results gets a nil position, not an error.
func (s *RankingService) ClassPosition(ctx context.Context, tenant models.TenantContext, classID, termID, studentID string) (*models.PositionInfo, error) {
	entries, err := s.RankClass(ctx, tenant, classID, termID)
	if err != nil {
		return nil, err
	}
	return positionOf(entries, studentID), nil
}

// SubjectPosition answers where a student stands on one subject sheet.
func (s *RankingService) SubjectPosition(ctx context.Context, tenant models.TenantContext, scope models.ResultScope, studentID string) (*models.PositionInfo, error) {
	entries, err := s.RankSubject(ctx, tenant, scope)
	if err != nil {
		return nil, err
	}
	return positionOf(entries, studentID), nil
}

// InvalidateClassTerm drops the cached class standing for the term together
// with every subject sheet under it. Sibling terms keep their cached
// rankings.
func (s *RankingService) InvalidateClassTerm(ctx context.Context, tenant models.TenantContext, classID, termID string) error {
	patterns := []string{
		classRankingKey(tenant.SchoolID, classID, termID),
		fmt.Sprintf("rankings:subject:%s:%s:*:%s", tenant.SchoolID, classID, termID),
	}
	for _, pattern := range patterns {
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

func positionOf(entries []models.RankingEntry, studentID string) *models.PositionInfo {
	info := &models.PositionInfo{StudentID: studentID}
	for _, e := range entries {
		info.TotalStudents = e.TotalStudents
		if e.StudentID == studentID {
			position := e.Position
			info.Position = &position
			info.AverageScore = e.AverageScore
			return info
		}
	}
	return info
}

func classRankingKey(schoolID, classID, termID string) string {
	return fmt.Sprintf("rankings:class:%s:%s:%s", schoolID, classID, termID)
}

func subjectRankingKey(schoolID string, scope models.ResultScope) string {
	return fmt.Sprintf("rankings:subject:%s:%s:%s:%s", schoolID, scope.ClassID, scope.SubjectID, scope.TermID)
}

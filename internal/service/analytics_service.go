package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edumetrics-ng/results-api/internal/models"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

// trendThreshold is the minimum shift between the first and second half of a
// score sequence before it counts as a trend rather than noise.
const trendThreshold = 5.0

// AnalyticsResultStore abstracts the result queries analytics reads.
type AnalyticsResultStore interface {
	ListSubmittedByStudentTerms(ctx context.Context, schoolID, studentID string, termIDs []string) ([]models.Result, error)
}

// SessionTermStore abstracts term lookups per academic session.
type SessionTermStore interface {
	ListBySession(ctx context.Context, schoolID, sessionID string) ([]models.Term, error)
}

// AnalyticsService derives performance trends and recommendations from
// submitted results.
type AnalyticsService struct {
	results  AnalyticsResultStore
	terms    SessionTermStore
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(results AnalyticsResultStore, terms SessionTermStore, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{results: results, terms: terms, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// AnalyzeTrend classifies a chronological score sequence by comparing the
// mean of its first half against the mean of its second half. Fewer than two
// scores cannot show direction.
func AnalyzeTrend(scores []float64) models.Trend {
	if len(scores) < 2 {
		return models.TrendInsufficientData
	}
	mid := len(scores) / 2
	firstMean := mean(scores[:mid])
	secondMean := mean(scores[mid:])
	diff := secondMean - firstMean
	switch {
	case diff > trendThreshold:
		return models.TrendImproving
	case diff < -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// StudentPerformance builds the multi-term performance report for a student
// within one academic session.
func (s *AnalyticsService) StudentPerformance(ctx context.Context, tenant models.TenantContext, studentID, sessionID string) (*models.PerformanceReport, error) {
	key := fmt.Sprintf("analytics:student:%s:%s:%s", tenant.SchoolID, studentID, sessionID)
	var cached models.PerformanceReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	terms, err := s.terms.ListBySession(ctx, tenant.SchoolID, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load session terms")
	}
	if len(terms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session has no terms")
	}

	termIDs := make([]string, len(terms))
	for i, t := range terms {
		termIDs[i] = t.ID
	}
	results, err := s.results.ListSubmittedByStudentTerms(ctx, tenant.SchoolID, studentID, termIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load student results")
	}

	report := s.buildReport(studentID, sessionID, terms, results)

	if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
		s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
	return report, nil
}

// buildReport aggregates results per term and per subject in chronological
// term order.
func (s *AnalyticsService) buildReport(studentID, sessionID string, terms []models.Term, results []models.Result) *models.PerformanceReport {
	byTerm := make(map[string][]models.Result)
	for _, r := range results {
		byTerm[r.TermID] = append(byTerm[r.TermID], r)
	}

	report := &models.PerformanceReport{
		StudentID:           studentID,
		SessionID:           sessionID,
		TermPerformances:    []models.TermPerformance{},
		SubjectPerformances: map[string]models.SubjectPerformance{},
		Recommendations:     []string{},
	}

	type subjectAgg struct {
		name   string
		scores []float64
	}
	subjectOrder := []string{}
	subjects := map[string]*subjectAgg{}

	var termAverages []float64
	var allScores []float64
	for _, term := range terms {
		termResults := byTerm[term.ID]
		if len(termResults) == 0 {
			continue
		}
		highest := termResults[0].TotalScore
		lowest := termResults[0].TotalScore
		var sum float64
		for _, r := range termResults {
			sum += r.TotalScore
			allScores = append(allScores, r.TotalScore)
			if r.TotalScore > highest {
				highest = r.TotalScore
			}
			if r.TotalScore < lowest {
				lowest = r.TotalScore
			}
			agg, ok := subjects[r.SubjectID]
			if !ok {
				agg = &subjectAgg{name: r.SubjectName}
				subjects[r.SubjectID] = agg
				subjectOrder = append(subjectOrder, r.SubjectID)
			}
			agg.scores = append(agg.scores, r.TotalScore)
		}
		average := roundHalfUp2(sum / float64(len(termResults)))
		termAverages = append(termAverages, average)
		report.TermPerformances = append(report.TermPerformances, models.TermPerformance{
			TermID:       term.ID,
			TermName:     term.Name,
			AverageScore: average,
			SubjectCount: len(termResults),
			HighestScore: highest,
			LowestScore:  lowest,
		})
	}

	for _, subjectID := range subjectOrder {
		agg := subjects[subjectID]
		highest := agg.scores[0]
		lowest := agg.scores[0]
		var sum float64
		for _, score := range agg.scores {
			sum += score
			if score > highest {
				highest = score
			}
			if score < lowest {
				lowest = score
			}
		}
		report.SubjectPerformances[subjectID] = models.SubjectPerformance{
			SubjectName:  agg.name,
			AverageScore: roundHalfUp2(sum / float64(len(agg.scores))),
			HighestScore: highest,
			LowestScore:  lowest,
			ScoreCount:   len(agg.scores),
			Trend:        AnalyzeTrend(agg.scores),
		}
	}

	report.OverallTrend = AnalyzeTrend(termAverages)
	if len(allScores) > 0 {
		report.CumulativeAverage = roundHalfUp2(mean(allScores))
	}
	report.Recommendations = buildRecommendations(report)
	return report
}

// buildRecommendations turns the aggregated report into advisory notes for
// teachers and parents. The overall note keys on the latest term's average,
// which is what the next report card reflects; the cumulative average stays a
// separate report field.
func buildRecommendations(report *models.PerformanceReport) []string {
	recommendations := []string{}

	if len(report.TermPerformances) == 0 {
		return append(recommendations, "No submitted results available for this session yet.")
	}

	average := report.TermPerformances[len(report.TermPerformances)-1].AverageScore
	switch {
	case average >= 75:
		recommendations = append(recommendations, "Excellent overall performance. Keep up the good work.")
	case average >= 60:
		recommendations = append(recommendations, "Good overall performance. Aim higher next term.")
	case average >= 45:
		recommendations = append(recommendations, "Average overall performance. More consistent effort is required.")
	default:
		recommendations = append(recommendations, "Overall performance is below average. Close academic support is needed.")
	}

	switch report.OverallTrend {
	case models.TrendImproving:
		recommendations = append(recommendations, "Performance is improving across terms. Keep it up.")
	case models.TrendDeclining:
		recommendations = append(recommendations, "Performance is declining across terms. Early intervention is advised.")
	}

	weak := subjectNamesWhere(report, func(p models.SubjectPerformance) bool { return p.AverageScore < 50 })
	if len(weak) > 0 {
		recommendations = append(recommendations, "Needs improvement in: "+strings.Join(weak, ", ")+".")
	}
	strong := subjectNamesWhere(report, func(p models.SubjectPerformance) bool { return p.AverageScore >= 75 })
	if len(strong) > 0 {
		recommendations = append(recommendations, "Strong performance in: "+strings.Join(strong, ", ")+".")
	}
	declining := subjectNamesWhere(report, func(p models.SubjectPerformance) bool { return p.Trend == models.TrendDeclining })
	if len(declining) > 0 {
		recommendations = append(recommendations, "Address declining performance in: "+strings.Join(declining, ", ")+".")
	}

	return recommendations
}

func subjectNamesWhere(report *models.PerformanceReport, match func(models.SubjectPerformance) bool) []string {
	names := []string{}
	for _, performance := range report.SubjectPerformances {
		if match(performance) {
			names = append(names, performance.SubjectName)
		}
	}
	sort.Strings(names)
	return names
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

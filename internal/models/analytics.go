package models

import "time"

// Trend describes the direction of a score sequence.
type Trend string

const (
	TrendImproving        Trend = "IMPROVING"
	TrendDeclining        Trend = "DECLINING"
	TrendStable           Trend = "STABLE"
	TrendInsufficientData Trend = "INSUFFICIENT_DATA"
)

// TermPerformance summarises one term inside a performance report.
type TermPerformance struct {
	TermID       string  `json:"term_id"`
	TermName     string  `json:"term_name"`
	AverageScore float64 `json:"average_score"`
	SubjectCount int     `json:"subject_count"`
	HighestScore float64 `json:"highest_score"`
	LowestScore  float64 `json:"lowest_score"`
}

// SubjectPerformance aggregates a student's scores for one subject across
// terms.
type SubjectPerformance struct {
	SubjectName  string  `json:"subject_name"`
	AverageScore float64 `json:"average_score"`
	HighestScore float64 `json:"highest_score"`
	LowestScore  float64 `json:"lowest_score"`
	ScoreCount   int     `json:"score_count"`
	Trend        Trend   `json:"trend"`
}

// PerformanceReport is the multi-term analysis for one student and session.
type PerformanceReport struct {
	StudentID           string                        `json:"student_id"`
	SessionID           string                        `json:"session_id"`
	TermPerformances    []TermPerformance             `json:"term_performances"`
	SubjectPerformances map[string]SubjectPerformance `json:"subject_performances"`
	OverallTrend        Trend                         `json:"overall_trend"`
	CumulativeAverage   float64                       `json:"cumulative_average"`
	Recommendations     []string                      `json:"recommendations"`
}

// SystemMetrics is an instrumentation snapshot exposed for operations.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumetrics-ng/results-api/internal/models"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

func testGradingTable() *models.GradingTable {
	return &models.GradingTable{
		ID:       "table-1",
		SchoolID: "school-1",
		Name:     "WAEC",
		Bands: []models.GradeBand{
			{Grade: "A1", MinScore: 75, MaxScore: 100, GradePoint: 4.0, Description: "Excellent"},
			{Grade: "B2", MinScore: 70, MaxScore: 74.99, GradePoint: 3.5, Description: "Very Good"},
			{Grade: "B3", MinScore: 65, MaxScore: 69.99, GradePoint: 3.25, Description: "Good"},
			{Grade: "C4", MinScore: 60, MaxScore: 64.99, GradePoint: 3.0, Description: "Credit"},
			{Grade: "C5", MinScore: 55, MaxScore: 59.99, GradePoint: 2.75, Description: "Credit"},
			{Grade: "C6", MinScore: 50, MaxScore: 54.99, GradePoint: 2.5, Description: "Credit"},
			{Grade: "D7", MinScore: 45, MaxScore: 49.99, GradePoint: 2.0, Description: "Pass"},
			{Grade: "E8", MinScore: 40, MaxScore: 44.99, GradePoint: 1.5, Description: "Pass"},
			{Grade: "F9", MinScore: 0, MaxScore: 39.99, GradePoint: 0.0, Description: "Fail"},
		},
	}
}

type stubGradingStore struct {
	table *models.GradingTable
	err   error
}

func (s *stubGradingStore) FindDefaultBySchool(ctx context.Context, schoolID string) (*models.GradingTable, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

func (s *stubGradingStore) ListBySchool(ctx context.Context, schoolID string) ([]models.GradingTable, error) {
	if s.table == nil {
		return nil, nil
	}
	return []models.GradingTable{*s.table}, nil
}

func (s *stubGradingStore) Create(ctx context.Context, table *models.GradingTable) error {
	s.table = table
	return nil
}

type stubResultStore struct {
	upserted     []models.Result
	listResults  []models.Result
	listErr      error
	submitted    bool
	classAverage float64
	positions    map[string]int
	submittedBy  string
}

func (s *stubResultStore) List(ctx context.Context, schoolID string, filter models.ResultFilter) ([]models.Result, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listResults, nil
}

func (s *stubResultStore) BulkUpsert(ctx context.Context, results []models.Result) error {
	s.upserted = append(s.upserted, results...)
	return nil
}

func (s *stubResultStore) SubmitScope(ctx context.Context, schoolID string, scope models.ResultScope, classAverage float64, positions map[string]int, submittedBy string, at time.Time) error {
	s.submitted = true
	s.classAverage = classAverage
	s.positions = positions
	s.submittedBy = submittedBy
	return nil
}

type stubTermStore struct {
	term *models.Term
	err  error
}

func (s *stubTermStore) FindByID(ctx context.Context, id string) (*models.Term, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.term, nil
}

func newTestResultService(results *stubResultStore, terms *stubTermStore, grading *stubGradingStore) *ResultService {
	gradingSvc := NewGradingService(grading, nil, nil)
	return NewResultService(results, terms, gradingSvc, nil, nil, nil, nil, nil)
}

func openTerm() *models.Term {
	return &models.Term{ID: "term-1", SchoolID: "school-1", SessionID: "session-1", Name: "First Term", Number: 1}
}

func TestComputeResultWeighting(t *testing.T) {
	svc := newTestResultService(&stubResultStore{}, &stubTermStore{term: openTerm()}, &stubGradingStore{table: testGradingTable()})
	table := testGradingTable()

	result := svc.ComputeResult(models.ScoreEntry{StudentID: "stu-1", CA1Score: 8, CA2Score: 9, ExamScore: 60}, table)
	assert.Equal(t, 49.7, result.TotalScore)
	assert.Equal(t, "D7", result.Grade)
	assert.Equal(t, 2.0, result.GradePoint)

	perfect := svc.ComputeResult(models.ScoreEntry{StudentID: "stu-1", CA1Score: 10, CA2Score: 10, ExamScore: 80}, table)
	assert.Equal(t, 66.0, perfect.TotalScore)
	assert.Equal(t, "B3", perfect.Grade)

	zero := svc.ComputeResult(models.ScoreEntry{StudentID: "stu-1"}, table)
	assert.Equal(t, 0.0, zero.TotalScore)
	assert.Equal(t, "F9", zero.Grade)
}

func TestComputeResultRoundsHalfUp(t *testing.T) {
	svc := newTestResultService(&stubResultStore{}, &stubTermStore{term: openTerm()}, &stubGradingStore{table: testGradingTable()})
	// 7.5*0.1 + 7.4*0.1 + 60.8*0.8 = 0.75 + 0.74 + 48.64 = 50.13
	result := svc.ComputeResult(models.ScoreEntry{StudentID: "stu-1", CA1Score: 7.5, CA2Score: 7.4, ExamScore: 60.8}, testGradingTable())
	assert.Equal(t, 50.13, result.TotalScore)
}

func TestProcessBatchPartialFailure(t *testing.T) {
	store := &stubResultStore{}
	svc := newTestResultService(store, &stubTermStore{term: openTerm()}, &stubGradingStore{table: testGradingTable()})
	tenant := models.TenantContext{SchoolID: "school-1"}

	req := BatchRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Entries: []models.ScoreEntry{
			{StudentID: "stu-1", CA1Score: 8, CA2Score: 9, ExamScore: 60},
			{StudentID: "stu-2", CA1Score: 7, CA2Score: 8, ExamScore: 55},
			{StudentID: "stu-3", CA1Score: 9, CA2Score: 9, ExamScore: 85},
			{StudentID: "stu-4", CA1Score: 6, CA2Score: 7, ExamScore: 50},
			{StudentID: "stu-5", CA1Score: 5, CA2Score: 6, ExamScore: 45},
		},
	}

	outcome, err := svc.ProcessBatch(context.Background(), tenant, req)
	require.NoError(t, err)

	assert.Equal(t, 4, outcome.SuccessCount)
	assert.Len(t, store.upserted, 4)
	require.Len(t, outcome.Rejections, 1)
	rejection := outcome.Rejections[0]
	assert.Equal(t, 2, rejection.Index)
	assert.Equal(t, "stu-3", rejection.StudentID)
	assert.Equal(t, "exam_score", rejection.Field)
	assert.Equal(t, appErrors.ErrOutOfRangeScore.Code, rejection.Code)
	assert.Contains(t, rejection.Reason, "between 0 and 80")

	for _, r := range store.upserted {
		assert.Equal(t, "school-1", r.SchoolID)
		assert.Equal(t, "class-1", r.ClassID)
		assert.Equal(t, "subject-1", r.SubjectID)
		assert.Equal(t, "term-1", r.TermID)
		assert.NotEmpty(t, r.Grade)
	}
}

func TestProcessBatchRejectsMissingStudentID(t *testing.T) {
	store := &stubResultStore{}
	svc := newTestResultService(store, &stubTermStore{term: openTerm()}, &stubGradingStore{table: testGradingTable()})

	req := BatchRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Entries:   []models.ScoreEntry{{CA1Score: 8, CA2Score: 8, ExamScore: 60}},
	}
	outcome, err := svc.ProcessBatch(context.Background(), models.TenantContext{SchoolID: "school-1"}, req)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.SuccessCount)
	require.Len(t, outcome.Rejections, 1)
	assert.Equal(t, "student_id", outcome.Rejections[0].Field)
	assert.Equal(t, appErrors.ErrValidation.Code, outcome.Rejections[0].Code)
	assert.Empty(t, store.upserted)
}

func TestProcessBatchComponentBoundaries(t *testing.T) {
	store := &stubResultStore{}
	svc := newTestResultService(store, &stubTermStore{term: openTerm()}, &stubGradingStore{table: testGradingTable()})

	req := BatchRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Entries: []models.ScoreEntry{
			{StudentID: "stu-1", CA1Score: 10, CA2Score: 10, ExamScore: 80},
			{StudentID: "stu-2", CA1Score: -0.5, CA2Score: 5, ExamScore: 40},
			{StudentID: "stu-3", CA1Score: 5, CA2Score: 10.5, ExamScore: 40},
		},
	}
	outcome, err := svc.ProcessBatch(context.Background(), models.TenantContext{SchoolID: "school-1"}, req)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.SuccessCount)
	require.Len(t, outcome.Rejections, 2)
	assert.Equal(t, "ca1_score", outcome.Rejections[0].Field)
	assert.Equal(t, "ca2_score", outcome.Rejections[1].Field)
}

func TestProcessBatchLockedTerm(t *testing.T) {
	locked := openTerm()
	locked.IsLocked = true
	svc := newTestResultService(&stubResultStore{}, &stubTermStore{term: locked}, &stubGradingStore{table: testGradingTable()})

	req := BatchRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Entries:   []models.ScoreEntry{{StudentID: "stu-1", CA1Score: 8, CA2Score: 9, ExamScore: 60}},
	}
	_, err := svc.ProcessBatch(context.Background(), models.TenantContext{SchoolID: "school-1"}, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrTermLocked)
}

func TestProcessBatchMissingGradingTable(t *testing.T) {
	svc := newTestResultService(&stubResultStore{}, &stubTermStore{term: openTerm()}, &stubGradingStore{err: sql.ErrNoRows})

	req := BatchRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Entries:   []models.ScoreEntry{{StudentID: "stu-1", CA1Score: 8, CA2Score: 9, ExamScore: 60}},
	}
	_, err := svc.ProcessBatch(context.Background(), models.TenantContext{SchoolID: "school-1"}, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrMissingGradingTable)
}

func TestProcessBatchForeignTerm(t *testing.T) {
	foreign := openTerm()
	foreign.SchoolID = "other-school"
	svc := newTestResultService(&stubResultStore{}, &stubTermStore{term: foreign}, &stubGradingStore{table: testGradingTable()})

	req := BatchRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TermID:    "term-1",
		Entries:   []models.ScoreEntry{{StudentID: "stu-1", CA1Score: 8, CA2Score: 9, ExamScore: 60}},
	}
	_, err := svc.ProcessBatch(context.Background(), models.TenantContext{SchoolID: "school-1"}, req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSubmitComputesPositionsAndAverage(t *testing.T) {
	store := &stubResultStore{
		listResults: []models.Result{
			{StudentID: "stu-1", TotalScore: 80},
			{StudentID: "stu-2", TotalScore: 80},
			{StudentID: "stu-3", TotalScore: 60},
		},
	}
	svc := newTestResultService(store, &stubTermStore{term: openTerm()}, &stubGradingStore{table: testGradingTable()})

	outcome, err := svc.Submit(context.Background(), models.TenantContext{SchoolID: "school-1"},
		SubmitRequest{ClassID: "class-1", SubjectID: "subject-1", TermID: "term-1"}, "teacher-1")
	require.NoError(t, err)

	assert.True(t, store.submitted)
	assert.Equal(t, 3, outcome.SubmittedCount)
	assert.Equal(t, 73.33, outcome.ClassAverage)
	assert.Equal(t, "teacher-1", store.submittedBy)
	assert.Equal(t, map[string]int{"stu-1": 1, "stu-2": 1, "stu-3": 3}, store.positions)
}

func TestSubmitEmptySheet(t *testing.T) {
	svc := newTestResultService(&stubResultStore{}, &stubTermStore{term: openTerm()}, &stubGradingStore{table: testGradingTable()})

	_, err := svc.Submit(context.Background(), models.TenantContext{SchoolID: "school-1"},
		SubmitRequest{ClassID: "class-1", SubjectID: "subject-1", TermID: "term-1"}, "teacher-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRoundHalfUp2(t *testing.T) {
	// 0.125 and 0.375 are exact in binary, so these pin the half-up rule.
	assert.Equal(t, 0.13, roundHalfUp2(0.125))
	assert.Equal(t, 0.38, roundHalfUp2(0.375))
	assert.Equal(t, 0.12, roundHalfUp2(0.124))
	assert.Equal(t, 73.33, roundHalfUp2(73.333333))
	assert.Equal(t, 66.67, roundHalfUp2(66.666666))
	assert.Equal(t, 0.0, roundHalfUp2(0))
}

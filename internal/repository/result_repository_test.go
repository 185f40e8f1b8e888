package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumetrics-ng/results-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func resultRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "school_id", "student_id", "subject_id", "class_id", "term_id",
		"ca1_score", "ca2_score", "exam_score", "total_score", "grade", "grade_point",
		"subject_position", "class_average", "teacher_comment", "is_submitted",
		"submitted_at", "submitted_by", "created_at", "updated_at",
	}).AddRow(
		"res-1", "school-1", "stu-1", "subject-1", "class-1", "term-1",
		8.0, 9.0, 60.0, 49.7, "D7", 2.0,
		nil, nil, "", false,
		nil, nil, now, now,
	)
}

func TestResultRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery(`FROM results r WHERE r\.school_id = \$1 AND r\.student_id = \$2 AND r\.term_id = \$3 AND r\.is_submitted = TRUE ORDER BY r\.created_at ASC, r\.id ASC`).
		WithArgs("school-1", "stu-1", "term-1").
		WillReturnRows(resultRows())

	results, err := repo.List(context.Background(), "school-1", models.ResultFilter{
		StudentID:     "stu-1",
		TermID:        "term-1",
		SubmittedOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "stu-1", results[0].StudentID)
	assert.Equal(t, 49.7, results[0].TotalScore)
	assert.Nil(t, results[0].SubjectPosition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListNoFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery(`FROM results r WHERE r\.school_id = \$1 ORDER BY`).
		WithArgs("school-1").
		WillReturnRows(resultRows())

	results, err := repo.List(context.Background(), "school-1", models.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryBulkUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO results").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO results").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	results := []models.Result{
		{SchoolID: "school-1", StudentID: "stu-1", SubjectID: "subject-1", ClassID: "class-1", TermID: "term-1", TotalScore: 49.7, Grade: "D7"},
		{SchoolID: "school-1", StudentID: "stu-2", SubjectID: "subject-1", ClassID: "class-1", TermID: "term-1", TotalScore: 61.8, Grade: "C4"},
	}
	err := repo.BulkUpsert(context.Background(), results)
	require.NoError(t, err)
	assert.NotEmpty(t, results[0].ID)
	assert.NotEmpty(t, results[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositorySubmitScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	at := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE results").
		WithArgs(1, 73.33, at, "teacher-1", "school-1", "class-1", "subject-1", "term-1", "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	scope := models.ResultScope{ClassID: "class-1", SubjectID: "subject-1", TermID: "term-1"}
	err := repo.SubmitScope(context.Background(), "school-1", scope, 73.33, map[string]int{"stu-1": 1}, "teacher-1", at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryReportRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	rows := sqlmock.NewRows([]string{
		"subject_id", "subject_name", "ca1_score", "ca2_score", "exam_score",
		"total_score", "grade", "grade_point", "subject_position", "class_average",
	}).AddRow("subject-1", "Mathematics", 8.0, 9.0, 60.0, 49.7, "D7", 2.0, 3, 55.2)

	mock.ExpectQuery(`JOIN subjects s ON s\.id = r\.subject_id`).
		WithArgs("school-1", "stu-1", "term-1").
		WillReturnRows(rows)

	reportRows, err := repo.ReportRows(context.Background(), "school-1", "stu-1", "term-1")
	require.NoError(t, err)
	require.Len(t, reportRows, 1)
	assert.Equal(t, "Mathematics", reportRows[0].SubjectName)
	require.NotNil(t, reportRows[0].SubjectPosition)
	assert.Equal(t, 3, *reportRows[0].SubjectPosition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumetrics-ng/results-api/internal/models"
)

func TestGradingRepositoryFindDefault(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradingRepository(db)

	tableRows := sqlmock.NewRows([]string{"id", "school_id", "name", "is_default", "created_at"}).
		AddRow("table-1", "school-1", "WAEC", true, time.Now())
	mock.ExpectQuery(`FROM grading_tables WHERE school_id = \$1`).
		WithArgs("school-1").
		WillReturnRows(tableRows)

	bandRows := sqlmock.NewRows([]string{"id", "grade", "min_score", "max_score", "grade_point", "description"}).
		AddRow("band-1", "A1", 75.0, 100.0, 4.0, "Excellent").
		AddRow("band-2", "F9", 0.0, 39.99, 0.0, "Fail")
	mock.ExpectQuery(`FROM grade_bands WHERE grading_table_id = \$1 ORDER BY min_score DESC`).
		WithArgs("table-1").
		WillReturnRows(bandRows)

	table, err := repo.FindDefaultBySchool(context.Background(), "school-1")
	require.NoError(t, err)
	assert.Equal(t, "WAEC", table.Name)
	require.Len(t, table.Bands, 2)
	assert.Equal(t, "A1", table.Bands[0].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradingRepositoryFindDefaultMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradingRepository(db)

	mock.ExpectQuery(`FROM grading_tables WHERE school_id = \$1`).
		WithArgs("school-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindDefaultBySchool(context.Background(), "school-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradingRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO grading_tables").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO grade_bands").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO grade_bands").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	table := &models.GradingTable{
		SchoolID: "school-1",
		Name:     "WAEC",
		Bands: []models.GradeBand{
			{Grade: "A1", MinScore: 75, MaxScore: 100, GradePoint: 4.0},
			{Grade: "F9", MinScore: 0, MaxScore: 74.99, GradePoint: 0.0},
		},
	}
	err := repo.Create(context.Background(), table)
	require.NoError(t, err)
	assert.NotEmpty(t, table.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumetrics-ng/results-api/internal/models"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

func TestDefaultTableMissing(t *testing.T) {
	svc := NewGradingService(&stubGradingStore{err: sql.ErrNoRows}, nil, nil)
	_, err := svc.DefaultTable(context.Background(), models.TenantContext{SchoolID: "school-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrMissingGradingTable)
}

func TestDefaultTableReturnsInvalidLayout(t *testing.T) {
	// A broken layout is logged, not hidden: existing results must stay readable.
	broken := &models.GradingTable{
		ID:       "table-1",
		SchoolID: "school-1",
		Name:     "broken",
		Bands: []models.GradeBand{
			{Grade: "A", MinScore: 60, MaxScore: 100},
			{Grade: "F", MinScore: 0, MaxScore: 40},
		},
	}
	svc := NewGradingService(&stubGradingStore{table: broken}, nil, nil)
	table, err := svc.DefaultTable(context.Background(), models.TenantContext{SchoolID: "school-1"})
	require.NoError(t, err)
	assert.Equal(t, "broken", table.Name)
}

func TestCreateGradingTableRejectsInvalidLayout(t *testing.T) {
	svc := NewGradingService(&stubGradingStore{}, nil, nil)
	req := CreateGradingTableRequest{
		Name: "overlapping",
		Bands: []models.GradeBand{
			{Grade: "A", MinScore: 50, MaxScore: 100},
			{Grade: "B", MinScore: 0, MaxScore: 50},
		},
	}
	_, err := svc.Create(context.Background(), models.TenantContext{SchoolID: "school-1"}, req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidGradingTable.Code, appErr.Code)
}

func TestCreateGradingTableScopesToTenant(t *testing.T) {
	store := &stubGradingStore{}
	svc := NewGradingService(store, nil, nil)
	req := CreateGradingTableRequest{
		Name:      "WAEC",
		IsDefault: true,
		Bands:     testGradingTable().Bands,
	}
	table, err := svc.Create(context.Background(), models.TenantContext{SchoolID: "school-1"}, req)
	require.NoError(t, err)
	assert.Equal(t, "school-1", table.SchoolID)
	assert.True(t, table.IsDefault)
	require.NotNil(t, store.table)
	assert.Equal(t, "WAEC", store.table.Name)
}

func TestCreateGradingTableValidation(t *testing.T) {
	svc := NewGradingService(&stubGradingStore{}, nil, nil)
	_, err := svc.Create(context.Background(), models.TenantContext{SchoolID: "school-1"}, CreateGradingTableRequest{})
	require.Error(t, err)
}

func TestResolveGradeGapFallsBack(t *testing.T) {
	svc := NewGradingService(&stubGradingStore{}, nil, nil)
	gapped := &models.GradingTable{
		ID:   "table-1",
		Name: "gapped",
		Bands: []models.GradeBand{
			{Grade: "A", MinScore: 60, MaxScore: 100, GradePoint: 4},
			{Grade: "F", MinScore: 0, MaxScore: 40, GradePoint: 0},
		},
	}
	band := svc.ResolveGrade(gapped, 50)
	assert.Equal(t, "F", band.Grade)
}

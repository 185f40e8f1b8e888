package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edumetrics-ng/results-api/internal/models"
)

// GradingRepository loads and stores grading tables with their bands.
type GradingRepository struct {
	db *sqlx.DB
}

// NewGradingRepository creates a new grading repository.
func NewGradingRepository(db *sqlx.DB) *GradingRepository {
	return &GradingRepository{db: db}
}

// FindDefaultBySchool returns the school's default grading table, falling
// back to any table owned by the school when no default is flagged. Returns
// sql.ErrNoRows when the school has no table at all.
func (r *GradingRepository) FindDefaultBySchool(ctx context.Context, schoolID string) (*models.GradingTable, error) {
	const query = `SELECT id, school_id, name, is_default, created_at
        FROM grading_tables WHERE school_id = $1
        ORDER BY is_default DESC, created_at ASC LIMIT 1`
	var table models.GradingTable
	if err := r.db.GetContext(ctx, &table, query, schoolID); err != nil {
		return nil, err
	}
	if err := r.loadBands(ctx, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// ListBySchool returns every grading table owned by the school.
func (r *GradingRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.GradingTable, error) {
	const query = `SELECT id, school_id, name, is_default, created_at
        FROM grading_tables WHERE school_id = $1 ORDER BY created_at ASC`
	var tables []models.GradingTable
	if err := r.db.SelectContext(ctx, &tables, query, schoolID); err != nil {
		return nil, fmt.Errorf("list grading tables: %w", err)
	}
	for i := range tables {
		if err := r.loadBands(ctx, &tables[i]); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// Create stores a table and its bands in one transaction.
func (r *GradingRepository) Create(ctx context.Context, table *models.GradingTable) error {
	if table.ID == "" {
		table.ID = uuid.NewString()
	}
	if table.CreatedAt.IsZero() {
		table.CreatedAt = time.Now().UTC()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const tableQuery = `INSERT INTO grading_tables (id, school_id, name, is_default, created_at)
        VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, tableQuery, table.ID, table.SchoolID, table.Name, table.IsDefault, table.CreatedAt); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("insert grading table: %w", err)
	}
	const bandQuery = `INSERT INTO grade_bands (id, grading_table_id, grade, min_score, max_score, grade_point, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range table.Bands {
		if table.Bands[i].ID == "" {
			table.Bands[i].ID = uuid.NewString()
		}
		band := table.Bands[i]
		if _, err := tx.ExecContext(ctx, bandQuery, band.ID, table.ID, band.Grade, band.MinScore, band.MaxScore, band.GradePoint, band.Description); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert grade band %s: %w", band.Grade, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grading table: %w", err)
	}
	return nil
}

func (r *GradingRepository) loadBands(ctx context.Context, table *models.GradingTable) error {
	const query = `SELECT id, grade, min_score, max_score, grade_point, description
        FROM grade_bands WHERE grading_table_id = $1 ORDER BY min_score DESC`
	if err := r.db.SelectContext(ctx, &table.Bands, query, table.ID); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("load grade bands: %w", err)
	}
	return nil
}

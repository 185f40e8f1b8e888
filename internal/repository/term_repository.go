package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumetrics-ng/results-api/internal/models"
)

// TermRepository reads academic terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository creates a new term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// FindByID returns a term by its identifier.
func (r *TermRepository) FindByID(ctx context.Context, id string) (*models.Term, error) {
	const query = `SELECT id, school_id, session_id, name, term_number, is_locked, start_date, end_date
        FROM terms WHERE id = $1`
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// ListBySession returns a session's terms ordered by term number.
func (r *TermRepository) ListBySession(ctx context.Context, schoolID, sessionID string) ([]models.Term, error) {
	const query = `SELECT id, school_id, session_id, name, term_number, is_locked, start_date, end_date
        FROM terms WHERE school_id = $1 AND session_id = $2 ORDER BY term_number ASC`
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, schoolID, sessionID); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

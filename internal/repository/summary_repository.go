package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edumetrics-ng/results-api/internal/models"
)

// SummaryRepository persists term result summaries.
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new summary repository.
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Upsert fully replaces the summary row for the (student, term) key.
func (r *SummaryRepository) Upsert(ctx context.Context, summary *models.TermSummary) error {
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	summary.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO term_summaries (id, school_id, student_id, term_id, total_subjects,
            total_score, average_score, highest_score, lowest_score, gpa,
            class_position, total_students, updated_at)
        VALUES (:id, :school_id, :student_id, :term_id, :total_subjects,
            :total_score, :average_score, :highest_score, :lowest_score, :gpa,
            :class_position, :total_students, :updated_at)
        ON CONFLICT (student_id, term_id)
        DO UPDATE SET total_subjects = EXCLUDED.total_subjects, total_score = EXCLUDED.total_score,
            average_score = EXCLUDED.average_score, highest_score = EXCLUDED.highest_score,
            lowest_score = EXCLUDED.lowest_score, gpa = EXCLUDED.gpa,
            class_position = EXCLUDED.class_position, total_students = EXCLUDED.total_students,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, summary); err != nil {
		return fmt.Errorf("upsert term summary: %w", err)
	}
	return nil
}

// FindByStudentTerm returns the summary for the (student, term) key.
func (r *SummaryRepository) FindByStudentTerm(ctx context.Context, schoolID, studentID, termID string) (*models.TermSummary, error) {
	const query = `SELECT id, school_id, student_id, term_id, total_subjects, total_score,
            average_score, highest_score, lowest_score, gpa, class_position, total_students, updated_at
        FROM term_summaries WHERE school_id = $1 AND student_id = $2 AND term_id = $3`
	var summary models.TermSummary
	if err := r.db.GetContext(ctx, &summary, query, schoolID, studentID, termID); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Delete removes the summary for the (student, term) key. Deleting an absent
// row is not an error.
func (r *SummaryRepository) Delete(ctx context.Context, schoolID, studentID, termID string) error {
	const query = `DELETE FROM term_summaries WHERE school_id = $1 AND student_id = $2 AND term_id = $3`
	if _, err := r.db.ExecContext(ctx, query, schoolID, studentID, termID); err != nil {
		return fmt.Errorf("delete term summary: %w", err)
	}
	return nil
}

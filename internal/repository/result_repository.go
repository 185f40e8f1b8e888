package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edumetrics-ng/results-api/internal/models"
)

const resultColumns = `r.id, r.school_id, r.student_id, r.subject_id, r.class_id, r.term_id,
        r.ca1_score, r.ca2_score, r.exam_score, r.total_score, r.grade, r.grade_point,
        r.subject_position, r.class_average, r.teacher_comment, r.is_submitted,
        r.submitted_at, r.submitted_by, r.created_at, r.updated_at`

// ResultRepository handles result persistence.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// List returns results matching the filter, scoped to the school.
func (r *ResultRepository) List(ctx context.Context, schoolID string, filter models.ResultFilter) ([]models.Result, error) {
	query := fmt.Sprintf("SELECT %s FROM results r WHERE r.school_id = $1", resultColumns)
	args := []interface{}{schoolID}
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND r.student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.SubjectID != "" {
		query += fmt.Sprintf(" AND r.subject_id = $%d", len(args)+1)
		args = append(args, filter.SubjectID)
	}
	if filter.ClassID != "" {
		query += fmt.Sprintf(" AND r.class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.TermID != "" {
		query += fmt.Sprintf(" AND r.term_id = $%d", len(args)+1)
		args = append(args, filter.TermID)
	}
	if filter.SubmittedOnly {
		query += " AND r.is_submitted = TRUE"
	}
	query += " ORDER BY r.created_at ASC, r.id ASC"
	var results []models.Result
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// ListSubmittedByClassTerm returns all submitted results for a class and term
// in stable creation order.
func (r *ResultRepository) ListSubmittedByClassTerm(ctx context.Context, schoolID, classID, termID string) ([]models.Result, error) {
	return r.List(ctx, schoolID, models.ResultFilter{ClassID: classID, TermID: termID, SubmittedOnly: true})
}

// ListSubmittedByScope returns all submitted results for one result sheet.
func (r *ResultRepository) ListSubmittedByScope(ctx context.Context, schoolID string, scope models.ResultScope) ([]models.Result, error) {
	return r.List(ctx, schoolID, models.ResultFilter{ClassID: scope.ClassID, SubjectID: scope.SubjectID, TermID: scope.TermID, SubmittedOnly: true})
}

// ListSubmittedByStudentTerm returns a student's submitted results for a term.
func (r *ResultRepository) ListSubmittedByStudentTerm(ctx context.Context, schoolID, studentID, termID string) ([]models.Result, error) {
	return r.List(ctx, schoolID, models.ResultFilter{StudentID: studentID, TermID: termID, SubmittedOnly: true})
}

// ListSubmittedByStudentTerms returns a student's submitted results across
// several terms with subject names joined, ordered by term then subject.
func (r *ResultRepository) ListSubmittedByStudentTerms(ctx context.Context, schoolID, studentID string, termIDs []string) ([]models.Result, error) {
	if len(termIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(termIDs))
	args := make([]interface{}, 0, len(termIDs)+2)
	args = append(args, schoolID, studentID)
	for i, id := range termIDs {
		placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, id)
	}
	query := fmt.Sprintf(`SELECT %s, s.name AS subject_name
        FROM results r
        JOIN subjects s ON s.id = r.subject_id
        WHERE r.school_id = $1 AND r.student_id = $2 AND r.term_id IN (%s) AND r.is_submitted = TRUE
        ORDER BY r.term_id ASC, s.name ASC`, resultColumns, strings.Join(placeholders, ","))
	var results []models.Result
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list results across terms: %w", err)
	}
	return results, nil
}

// BulkUpsert inserts or updates results in one transaction. Conflicts on the
// (student, subject, term) unique key overwrite scores; last write wins.
func (r *ResultRepository) BulkUpsert(ctx context.Context, results []models.Result) error {
	if len(results) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range results {
		if results[i].ID == "" {
			results[i].ID = uuid.NewString()
		}
		now := time.Now().UTC()
		if results[i].CreatedAt.IsZero() {
			results[i].CreatedAt = now
		}
		results[i].UpdatedAt = now
		const query = `INSERT INTO results (id, school_id, student_id, subject_id, class_id, term_id,
                ca1_score, ca2_score, exam_score, total_score, grade, grade_point,
                teacher_comment, is_submitted, created_at, updated_at)
            VALUES (:id, :school_id, :student_id, :subject_id, :class_id, :term_id,
                :ca1_score, :ca2_score, :exam_score, :total_score, :grade, :grade_point,
                :teacher_comment, :is_submitted, :created_at, :updated_at)
            ON CONFLICT (student_id, subject_id, term_id)
            DO UPDATE SET ca1_score = EXCLUDED.ca1_score, ca2_score = EXCLUDED.ca2_score,
                exam_score = EXCLUDED.exam_score, total_score = EXCLUDED.total_score,
                grade = EXCLUDED.grade, grade_point = EXCLUDED.grade_point,
                teacher_comment = EXCLUDED.teacher_comment, updated_at = EXCLUDED.updated_at`
		if _, err := tx.NamedExecContext(ctx, query, results[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert result: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

// SubmitScope finalises one result sheet: each result receives its subject
// position, the sheet-wide class average and the submission stamp.
func (r *ResultRepository) SubmitScope(ctx context.Context, schoolID string, scope models.ResultScope, classAverage float64, positions map[string]int, submittedBy string, at time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `UPDATE results
        SET subject_position = $1, class_average = $2, is_submitted = TRUE,
            submitted_at = $3, submitted_by = $4, updated_at = $3
        WHERE school_id = $5 AND class_id = $6 AND subject_id = $7 AND term_id = $8 AND student_id = $9`
	for studentID, position := range positions {
		if _, err := tx.ExecContext(ctx, query, position, classAverage, at, submittedBy,
			schoolID, scope.ClassID, scope.SubjectID, scope.TermID, studentID); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("submit result for student %s: %w", studentID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submit: %w", err)
	}
	return nil
}

// ReportRows returns a student's submitted results for a term shaped for
// report-card rendering.
func (r *ResultRepository) ReportRows(ctx context.Context, schoolID, studentID, termID string) ([]models.ReportCardRow, error) {
	const query = `SELECT r.subject_id, s.name AS subject_name, r.ca1_score, r.ca2_score, r.exam_score,
            r.total_score, r.grade, r.grade_point, r.subject_position, r.class_average
        FROM results r
        JOIN subjects s ON s.id = r.subject_id
        WHERE r.school_id = $1 AND r.student_id = $2 AND r.term_id = $3 AND r.is_submitted = TRUE
        ORDER BY s.name ASC`
	var rows []models.ReportCardRow
	if err := r.db.SelectContext(ctx, &rows, query, schoolID, studentID, termID); err != nil {
		return nil, fmt.Errorf("report rows: %w", err)
	}
	return rows, nil
}

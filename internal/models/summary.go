package models

import "time"

// TermSummary is the derived per-(student, term) aggregate. It is fully
// recomputed, never incrementally patched, whenever any result for that
// student and term changes.
type TermSummary struct {
	ID            string    `db:"id" json:"id"`
	SchoolID      string    `db:"school_id" json:"school_id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	TermID        string    `db:"term_id" json:"term_id"`
	TotalSubjects int       `db:"total_subjects" json:"total_subjects"`
	TotalScore    float64   `db:"total_score" json:"total_score"`
	AverageScore  float64   `db:"average_score" json:"average_score"`
	HighestScore  float64   `db:"highest_score" json:"highest_score"`
	LowestScore   float64   `db:"lowest_score" json:"lowest_score"`
	GPA           float64   `db:"gpa" json:"gpa"`
	ClassPosition *int      `db:"class_position" json:"class_position,omitempty"`
	TotalStudents int       `db:"total_students" json:"total_students"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

package models

import "time"

// Component weights for the Nigerian standard: CA1 10%, CA2 10%, exam 80%.
const (
	CA1Weight  = 0.1
	CA2Weight  = 0.1
	ExamWeight = 0.8

	CA1MaxScore  = 10.0
	CA2MaxScore  = 10.0
	ExamMaxScore = 80.0
)

// ScoreEntry is the raw teacher input for one (student, subject, term) triple.
type ScoreEntry struct {
	StudentID      string  `json:"student_id" validate:"required"`
	CA1Score       float64 `json:"ca1_score"`
	CA2Score       float64 `json:"ca2_score"`
	ExamScore      float64 `json:"exam_score"`
	TeacherComment string  `json:"teacher_comment"`
}

// Result is a score entry plus the derived total, grade and submission state.
// SubjectPosition and ClassAverage are populated only after a class-wide
// submit finalises the (class, subject, term) sheet.
type Result struct {
	ID              string     `db:"id" json:"id"`
	SchoolID        string     `db:"school_id" json:"school_id"`
	StudentID       string     `db:"student_id" json:"student_id"`
	SubjectID       string     `db:"subject_id" json:"subject_id"`
	ClassID         string     `db:"class_id" json:"class_id"`
	TermID          string     `db:"term_id" json:"term_id"`
	CA1Score        float64    `db:"ca1_score" json:"ca1_score"`
	CA2Score        float64    `db:"ca2_score" json:"ca2_score"`
	ExamScore       float64    `db:"exam_score" json:"exam_score"`
	TotalScore      float64    `db:"total_score" json:"total_score"`
	Grade           string     `db:"grade" json:"grade"`
	GradePoint      float64    `db:"grade_point" json:"grade_point"`
	SubjectPosition *int       `db:"subject_position" json:"subject_position,omitempty"`
	ClassAverage    *float64   `db:"class_average" json:"class_average,omitempty"`
	TeacherComment  string     `db:"teacher_comment" json:"teacher_comment,omitempty"`
	IsSubmitted     bool       `db:"is_submitted" json:"is_submitted"`
	SubmittedAt     *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	SubmittedBy     *string    `db:"submitted_by" json:"submitted_by,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`

	// SubjectName is populated by queries that join the subjects table.
	SubjectName string `db:"subject_name" json:"subject_name,omitempty"`
}

// ResultScope identifies one class+subject+term result sheet.
type ResultScope struct {
	ClassID   string `json:"class_id"`
	SubjectID string `json:"subject_id"`
	TermID    string `json:"term_id"`
}

// ResultFilter captures query criteria for listing results.
type ResultFilter struct {
	StudentID     string
	SubjectID     string
	ClassID       string
	TermID        string
	SubmittedOnly bool
}

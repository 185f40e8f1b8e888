package models

import "time"

// ReportCardRow is one subject line on a printable report card.
type ReportCardRow struct {
	SubjectID       string   `db:"subject_id" json:"subject_id"`
	SubjectName     string   `db:"subject_name" json:"subject_name"`
	CA1Score        float64  `db:"ca1_score" json:"ca1_score"`
	CA2Score        float64  `db:"ca2_score" json:"ca2_score"`
	ExamScore       float64  `db:"exam_score" json:"exam_score"`
	TotalScore      float64  `db:"total_score" json:"total_score"`
	Grade           string   `db:"grade" json:"grade"`
	GradePoint      float64  `db:"grade_point" json:"grade_point"`
	SubjectPosition *int     `db:"subject_position" json:"subject_position,omitempty"`
	ClassAverage    *float64 `db:"class_average" json:"class_average,omitempty"`
	Remark          string   `db:"-" json:"remark"`
}

// ReportCard is the structured data feeding printable report generation. It
// carries plain values only; layout belongs to the rendering layer.
type ReportCard struct {
	StudentID        string          `json:"student_id"`
	StudentName      string          `json:"student_name"`
	AdmissionNumber  string          `json:"admission_number"`
	ClassID          string          `json:"class_id"`
	TermID           string          `json:"term_id"`
	TermName         string          `json:"term_name"`
	Rows             []ReportCardRow `json:"rows"`
	Summary          *TermSummary    `json:"summary,omitempty"`
	TeacherComment   string          `json:"teacher_comment"`
	PrincipalComment string          `json:"principal_comment"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

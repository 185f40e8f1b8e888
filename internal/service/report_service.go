package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/edumetrics-ng/results-api/internal/models"
	"github.com/edumetrics-ng/results-api/pkg/config"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

// gradeRemarks maps WAEC-style grades to their report card remark.
var gradeRemarks = map[string]string{
	"A1": "Excellent",
	"B2": "Very Good",
	"B3": "Good",
	"C4": "Credit",
	"C5": "Credit",
	"C6": "Credit",
	"D7": "Pass",
	"E8": "Pass",
	"F9": "Fail",
}

// ReportResultStore abstracts the result queries reports read.
type ReportResultStore interface {
	ReportRows(ctx context.Context, schoolID, studentID, termID string) ([]models.ReportCardRow, error)
	ListSubmittedByClassTerm(ctx context.Context, schoolID, classID, termID string) ([]models.Result, error)
}

// ReportStudentStore abstracts student lookups for reports.
type ReportStudentStore interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Student, error)
	ListByClass(ctx context.Context, schoolID, classID string) ([]models.Student, error)
}

// ReportSummaryStore abstracts summary lookups for reports.
type ReportSummaryStore interface {
	FindByStudentTerm(ctx context.Context, schoolID, studentID, termID string) (*models.TermSummary, error)
}

// ReportService assembles report cards and renders printable exports.
type ReportService struct {
	results   ReportResultStore
	students  ReportStudentStore
	summaries ReportSummaryStore
	terms     TermStore
	cfg       config.ReportsConfig
	logger    *zap.Logger
}

// NewReportService constructs a report service.
func NewReportService(results ReportResultStore, students ReportStudentStore, summaries ReportSummaryStore, terms TermStore, cfg config.ReportsConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{results: results, students: students, summaries: summaries, terms: terms, cfg: cfg, logger: logger}
}

// StudentReportCard assembles the structured report card for one student and
// term from submitted results only.
func (s *ReportService) StudentReportCard(ctx context.Context, tenant models.TenantContext, studentID, termID string) (*models.ReportCard, error) {
	student, err := s.students.FindByID(ctx, tenant.SchoolID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load student")
	}

	term, err := s.terms.FindByID(ctx, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load term")
	}
	if term.SchoolID != tenant.SchoolID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
	}

	rows, err := s.results.ReportRows(ctx, tenant.SchoolID, studentID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load report rows")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no submitted results for this term")
	}
	for i := range rows {
		rows[i].Remark = gradeRemarks[rows[i].Grade]
	}

	card := &models.ReportCard{
		StudentID:       student.ID,
		StudentName:     student.FullName,
		AdmissionNumber: student.AdmissionNumber,
		ClassID:         student.ClassID,
		TermID:          term.ID,
		TermName:        term.Name,
		Rows:            rows,
		GeneratedAt:     time.Now().UTC(),
	}

	summary, err := s.summaries.FindByStudentTerm(ctx, tenant.SchoolID, studentID, termID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load term summary")
	}
	if err == nil {
		card.Summary = summary
	}

	average := averageForComments(card)
	card.TeacherComment = teacherComment(average)
	card.PrincipalComment = principalComment(average)
	return card, nil
}

// RenderReportCardPDF renders the card as a printable PDF document.
func (s *ReportService) RenderReportCardPDF(card *models.ReportCard) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Report Card - %s", card.StudentName), false)
	pdf.AddPage()

	if s.cfg.SchoolName != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 9, s.cfg.SchoolName, "", 1, "C", false, 0, "")
	}
	if s.cfg.SchoolMotto != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 6, s.cfg.SchoolMotto, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, fmt.Sprintf("Terminal Report - %s", card.TermName), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Student: %s", card.StudentName), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Admission No: %s", card.AdmissionNumber), "", 1, "L", false, 0, "")
	if card.Summary != nil && card.Summary.ClassPosition != nil {
		pdf.CellFormat(95, 6, fmt.Sprintf("Class Position: %d of %d", *card.Summary.ClassPosition, card.Summary.TotalStudents), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	headers := []string{"Subject", "CA1", "CA2", "Exam", "Total", "Grade", "Position", "Remark"}
	widths := []float64{52, 14, 14, 16, 18, 16, 20, 40}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range card.Rows {
		position := "-"
		if row.SubjectPosition != nil {
			position = fmt.Sprintf("%d", *row.SubjectPosition)
		}
		cells := []string{
			row.SubjectName,
			fmt.Sprintf("%.1f", row.CA1Score),
			fmt.Sprintf("%.1f", row.CA2Score),
			fmt.Sprintf("%.1f", row.ExamScore),
			fmt.Sprintf("%.2f", row.TotalScore),
			row.Grade,
			position,
			row.Remark,
		}
		for i, cell := range cells {
			align := "C"
			if i == 0 || i == len(cells)-1 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	if card.Summary != nil {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Term Summary", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(63, 6, fmt.Sprintf("Subjects: %d", card.Summary.TotalSubjects), "", 0, "L", false, 0, "")
		pdf.CellFormat(63, 6, fmt.Sprintf("Average: %.2f", card.Summary.AverageScore), "", 0, "L", false, 0, "")
		pdf.CellFormat(63, 6, fmt.Sprintf("GPA: %.2f", card.Summary.GPA), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Class Teacher's Comment: %s", card.TeacherComment), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Principal's Comment: %s", card.PrincipalComment), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if s.cfg.FooterNotice != "" {
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, s.cfg.FooterNotice, "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render report card pdf")
	}
	return buf.Bytes(), nil
}

// ClassBroadsheetCSV exports every submitted result for a class and term in
// long form, one row per student and subject.
func (s *ReportService) ClassBroadsheetCSV(ctx context.Context, tenant models.TenantContext, classID, termID string) ([]byte, error) {
	students, err := s.students.ListByClass(ctx, tenant.SchoolID, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load class roster")
	}
	names := make(map[string]models.Student, len(students))
	for _, st := range students {
		names[st.ID] = st
	}

	results, err := s.results.ListSubmittedByClassTerm(ctx, tenant.SchoolID, classID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load class results")
	}
	if len(results) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no submitted results for this class and term")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"admission_number", "student_name", "subject_id", "ca1", "ca2", "exam", "total", "grade", "position"}
	if err := w.Write(header); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write broadsheet header")
	}
	for _, r := range results {
		student := names[r.StudentID]
		position := ""
		if r.SubjectPosition != nil {
			position = fmt.Sprintf("%d", *r.SubjectPosition)
		}
		record := []string{
			student.AdmissionNumber,
			student.FullName,
			r.SubjectID,
			fmt.Sprintf("%.1f", r.CA1Score),
			fmt.Sprintf("%.1f", r.CA2Score),
			fmt.Sprintf("%.1f", r.ExamScore),
			fmt.Sprintf("%.2f", r.TotalScore),
			r.Grade,
			position,
		}
		if err := w.Write(record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write broadsheet row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "flush broadsheet")
	}
	return buf.Bytes(), nil
}

// averageForComments prefers the stored summary average and falls back to the
// card rows when no summary exists yet.
func averageForComments(card *models.ReportCard) float64 {
	if card.Summary != nil {
		return card.Summary.AverageScore
	}
	var sum float64
	for _, row := range card.Rows {
		sum += row.TotalScore
	}
	return roundHalfUp2(sum / float64(len(card.Rows)))
}

func teacherComment(average float64) string {
	switch {
	case average >= 80:
		return "An excellent result. Keep it up."
	case average >= 70:
		return "A very good result. Keep working hard."
	case average >= 60:
		return "A good result. There is room to do better."
	case average >= 50:
		return "A fair result. More effort is needed."
	default:
		return "A poor result. Serious improvement is required."
	}
}

func principalComment(average float64) string {
	switch {
	case average >= 75:
		return "Outstanding performance. Keep flying the school's flag high."
	case average >= 60:
		return "Good performance. Keep improving."
	case average >= 50:
		return "Fair performance. Greater commitment is expected next term."
	default:
		return "Performance is below expectation. Parents' attention is required."
	}
}

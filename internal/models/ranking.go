package models

// RankingEntry is the ephemeral output of a ranking query. Entries are
// recomputed on demand and never persisted.
type RankingEntry struct {
	StudentID     string  `json:"student_id"`
	AverageScore  float64 `json:"average_score"`
	SubjectCount  int     `json:"subject_count"`
	Position      int     `json:"position"`
	TotalStudents int     `json:"total_students"`
}

// PositionInfo answers a "what is this student's position" lookup. Position
// is nil when the student has no submitted results in the ranked set; that is
// "position not yet available", never an error.
type PositionInfo struct {
	StudentID     string  `json:"student_id"`
	Position      *int    `json:"position"`
	AverageScore  float64 `json:"average_score"`
	TotalStudents int     `json:"total_students"`
}

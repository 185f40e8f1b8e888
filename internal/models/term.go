package models

import "time"

// Term is one academic period within a session. Three terms per session in
// the Nigerian convention.
type Term struct {
	ID        string     `db:"id" json:"id"`
	SchoolID  string     `db:"school_id" json:"school_id"`
	SessionID string     `db:"session_id" json:"session_id"`
	Name      string     `db:"name" json:"name"`
	Number    int        `db:"term_number" json:"term_number"`
	IsLocked  bool       `db:"is_locked" json:"is_locked"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
}

package models

import "time"

// Student represents a learner enrolled in a class.
type Student struct {
	ID              string    `db:"id" json:"id"`
	SchoolID        string    `db:"school_id" json:"school_id"`
	UserID          string    `db:"user_id" json:"user_id"`
	FullName        string    `db:"full_name" json:"full_name"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	ClassID         string    `db:"class_id" json:"class_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

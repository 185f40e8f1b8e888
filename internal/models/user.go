package models

import "time"

// UserRole is the closed set of roles recognised by the system. Permissions
// are derived from the role via capability flags, never looked up by string.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "SUPER_ADMIN"
	RoleSchoolAdmin UserRole = "SCHOOL_ADMIN"
	RoleTeacher     UserRole = "TEACHER"
	RoleStudent     UserRole = "STUDENT"
	RoleParent      UserRole = "PARENT"
)

// Capability is a single permission flag.
type Capability uint16

const (
	CapEnterResults Capability = 1 << iota
	CapSubmitResults
	CapViewResults
	CapViewRankings
	CapViewAnalytics
	CapViewReports
	CapManageGrading
)

var roleCapabilities = map[UserRole]Capability{
	RoleSuperAdmin:  CapEnterResults | CapSubmitResults | CapViewResults | CapViewRankings | CapViewAnalytics | CapViewReports | CapManageGrading,
	RoleSchoolAdmin: CapEnterResults | CapSubmitResults | CapViewResults | CapViewRankings | CapViewAnalytics | CapViewReports | CapManageGrading,
	RoleTeacher:     CapEnterResults | CapSubmitResults | CapViewResults | CapViewRankings | CapViewAnalytics | CapViewReports,
	RoleStudent:     CapViewResults | CapViewAnalytics | CapViewReports,
	RoleParent:      CapViewResults | CapViewAnalytics | CapViewReports,
}

// HasCapability reports whether the role carries every requested capability.
// Unknown roles carry none.
func HasCapability(role UserRole, required Capability) bool {
	granted, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	return granted&required == required
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	SchoolID     string     `db:"school_id" json:"school_id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

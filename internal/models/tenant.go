package models

// TenantContext carries the school scope explicitly through every core call
// instead of relying on implicit relationship filtering.
type TenantContext struct {
	SchoolID string
}

package auditlog

import (
	"time"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"userId"`   // nullable (e.g. failed login)
	FarmerID  *uint     `gorm:"index" json:"farmerId"` // nullable (admin actions)
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"` // freeform JSON details
	IPAddress string    `gorm:"size:45" json:"ipAddress"`
	Status    string    `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Actions written by the farmer-facing services.
const (
	ActionLogin              = "LOGIN"
	ActionRegister           = "REGISTER"
	ActionProfileUpdated     = "PROFILE_UPDATED"
	ActionLandAdded          = "LAND_ADDED"
	ActionLandUpdated        = "LAND_UPDATED"
	ActionCropAdded          = "CROP_ADDED"
	ActionCropUpdated        = "CROP_UPDATED"
	ActionLivestockAdded     = "LIVESTOCK_ADDED"
	ActionLivestockUpdated   = "LIVESTOCK_UPDATED"
	ActionApplicationCreated = "APPLICATION_SUBMITTED"
	ActionApplicationReview  = "APPLICATION_REVIEWED"
	ActionBookmarkAdded      = "BOOKMARK_ADDED"
	ActionBookmarkRemoved    = "BOOKMARK_REMOVED"
	ActionSchemeCreated      = "SCHEME_CREATED"
	ActionSchemeUpdated      = "SCHEME_UPDATED"
	ActionReportExported     = "REPORT_EXPORTED"
)

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   *uint
	FarmerID *uint
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

package application

import (
	"time"

	"gorm.io/datatypes"

	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// transitions lists the review decisions allowed from each status.
var transitions = map[string]map[string]bool{
	StatusPending:  {StatusApproved: true, StatusRejected: true},
	StatusApproved: {StatusCompleted: true},
}

// IsValidStatus reports whether status is one of the known application statuses.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether an application in status from may move to to.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

// Application is a farmer's submission to a scheme.
type Application struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FarmerID        uint           `gorm:"not null;index" json:"farmerId"`
	SchemeID        uint           `gorm:"not null;index" json:"schemeId"`
	Scheme          *scheme.Scheme `gorm:"foreignKey:SchemeID" json:"scheme,omitempty"`
	Status          string         `gorm:"size:20;not null;index" json:"status"`
	ApplicationData datatypes.JSON `json:"applicationData,omitempty"`
	SubmittedAt     time.Time      `gorm:"not null" json:"submittedAt"`
	ReviewedAt      *time.Time     `json:"reviewedAt,omitempty"`
	ReviewNotes     string         `gorm:"type:text" json:"reviewNotes,omitempty"`
	BenefitReceived *float64       `json:"benefitReceived,omitempty"`
	ReceivedAt      *time.Time     `json:"receivedAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Bookmark marks a scheme the farmer wants to come back to.
type Bookmark struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FarmerID  uint           `gorm:"not null;index" json:"farmerId"`
	SchemeID  uint           `gorm:"not null;index" json:"schemeId"`
	Scheme    *scheme.Scheme `gorm:"foreignKey:SchemeID" json:"scheme,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type SubmitRequest struct {
	SchemeID        uint           `json:"schemeId" binding:"required"`
	ApplicationData datatypes.JSON `json:"applicationData" swaggertype:"object"`
}

type BookmarkRequest struct {
	SchemeID uint `json:"schemeId" binding:"required"`
}

// ReviewRequest moves an application along the review workflow.
type ReviewRequest struct {
	Status          string     `json:"status" binding:"required" example:"approved"`
	Notes           string     `json:"notes"`
	BenefitReceived *float64   `json:"benefitReceived"`
	ReceivedAt      *time.Time `json:"receivedAt"`
}

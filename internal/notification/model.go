package notification

import "time"

const (
	TypeInfo    = "info"
	TypeWarning = "warning"
	TypeSuccess = "success"
	TypeError   = "error"
)

// Notification is an in-app bell notification for one farmer.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FarmerID  uint      `gorm:"not null;index" json:"farmerId"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:10;not null" json:"type"` // info, warning, success, error
	IsRead    bool      `gorm:"not null" json:"isRead"`
	ActionURL string    `gorm:"size:255" json:"actionUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeviceToken stores farmer device tokens for push notifications
type DeviceToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FarmerID   uint      `gorm:"not null;index" json:"farmerId"`
	Token      string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	Platform   string    `gorm:"size:20" json:"platform"` // android, ios, web
	IsActive   bool      `gorm:"not null" json:"isActive"`
	LastUsedAt time.Time `json:"lastUsedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var validTypes = map[string]bool{TypeInfo: true, TypeWarning: true, TypeSuccess: true, TypeError: true}

type RegisterDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" example:"android"`
}

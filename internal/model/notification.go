package model

import "time"

// Notification in-app message — notifications
type Notification struct {
	NotificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Type           string    `gorm:"type:varchar(20);not null"                      json:"type"` // reminder | alert | info
	Message        string    `gorm:"type:text;not null"                             json:"message"`
	Read           bool      `gorm:"not null;default:false"                         json:"read"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName table name.
func (Notification) TableName() string { return "notifications" }

package models

import "gorm.io/datatypes"

type NotificationType string

const (
	NotificationBadge    NotificationType = "badge"
	NotificationMedal    NotificationType = "medal"
	NotificationFollow   NotificationType = "follow"
	NotificationReferral NotificationType = "referral"
	NotificationPremium  NotificationType = "premium"
	NotificationSystem   NotificationType = "system"
	NotificationLike     NotificationType = "like"
	NotificationComment  NotificationType = "comment"
)

// Notification is an informational row; delivery happens elsewhere.
type Notification struct {
	Base
	UserID    string           `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Type      NotificationType `gorm:"size:16;not null;index" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	IsRead    bool             `gorm:"not null;default:false;index" json:"is_read"`
	ActionURL *string          `json:"action_url,omitempty"`
	Metadata  datatypes.JSON   `json:"metadata,omitempty"`
}

package services

import (
	"context"
	"encoding/json"
	"time"

	"memeverse/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const notificationPageSize = 50

type NotificationService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db, Now: time.Now}
}

type notification struct {
	UserID    string
	Type      models.NotificationType
	Title     string
	Message   string
	ActionURL string
	Metadata  map[string]any
}

// notifyTx writes a notification inside tx. Like, comment, badge and medal
// notifications are skipped (nil, nil) when the recipient turned them off.
func notifyTx(tx *gorm.DB, n notification) (*models.Notification, error) {
	if gate := settingGate(n.Type); gate != nil {
		var row struct {
			SettingsNotifications datatypes.JSON
		}
		if err := tx.Model(&models.User{}).Select("settings_notifications").Where("id = ?", n.UserID).Take(&row).Error; err != nil {
			return nil, err
		}
		prefs := DefaultNotificationSettings()
		decodeOver(row.SettingsNotifications, &prefs)
		if !gate(prefs) {
			return nil, nil
		}
	}

	out := &models.Notification{
		UserID:  n.UserID,
		Type:    n.Type,
		Title:   n.Title,
		Message: n.Message,
	}
	if n.ActionURL != "" {
		url := n.ActionURL
		out.ActionURL = &url
	}
	if len(n.Metadata) > 0 {
		encoded, err := json.Marshal(n.Metadata)
		if err != nil {
			return nil, err
		}
		out.Metadata = datatypes.JSON(encoded)
	}
	if err := tx.Create(out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func settingGate(t models.NotificationType) func(NotificationSettings) bool {
	switch t {
	case models.NotificationLike:
		return func(p NotificationSettings) bool { return p.LikeNotifications }
	case models.NotificationComment:
		return func(p NotificationSettings) bool { return p.CommentNotifications }
	case models.NotificationBadge, models.NotificationMedal:
		return func(p NotificationSettings) bool { return p.MedalNotifications }
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at DESC").Limit(notificationPageSize).Find(&out).Error; err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// NotificationCursor marks the last notification a stream has delivered.
// ID breaks ties between rows sharing a timestamp.
type NotificationCursor struct {
	CreatedAt time.Time
	ID        string
}

// Advance moves the cursor past n.
func (c NotificationCursor) Advance(n models.Notification) NotificationCursor {
	return NotificationCursor{CreatedAt: n.CreatedAt, ID: n.ID}
}

// ListSince returns up to one page of notifications after cursor, ordered by
// (created_at, id).
func (s *NotificationService) ListSince(ctx context.Context, userID string, cursor NotificationCursor) ([]models.Notification, error) {
	var out []models.Notification
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("(created_at > ? OR (created_at = ? AND id > ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID).
		Order("created_at ASC").
		Order("id ASC").
		Limit(notificationPageSize).
		Find(&out).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, storageErr(res.Error)
	}
	return res.RowsAffected, nil
}

type NotificationCounts struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

func (s *NotificationService) Counts(ctx context.Context, userID string) (*NotificationCounts, error) {
	var counts NotificationCounts
	db := s.DB.WithContext(ctx).Model(&models.Notification{})
	if err := db.Where("user_id = ?", userID).Count(&counts.Total).Error; err != nil {
		return nil, storageErr(err)
	}
	if err := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&counts.Unread).Error; err != nil {
		return nil, storageErr(err)
	}
	return &counts, nil
}

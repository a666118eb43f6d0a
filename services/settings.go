package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"memeverse/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var validate = validator.New()

type NotificationSettings struct {
	EmailNotifications   bool `json:"emailNotifications"`
	PushNotifications    bool `json:"pushNotifications"`
	LikeNotifications    bool `json:"likeNotifications"`
	CommentNotifications bool `json:"commentNotifications"`
	MedalNotifications   bool `json:"medalNotifications"`
}

type PrivacySettings struct {
	ProfileVisible bool `json:"profileVisible"`
	ShowEmail      bool `json:"showEmail"`
	ShowStats      bool `json:"showStats"`
}

type AppearanceSettings struct {
	Theme string `json:"theme" validate:"oneof=light dark system"`
}

type ProfileSettings struct {
	Name  string  `json:"name" validate:"required,min=1,max=100"`
	Bio   *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Image *string `json:"image,omitempty" validate:"omitempty,url"`
}

type UserSettings struct {
	Profile       ProfileSettings      `json:"profile"`
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	Appearance    AppearanceSettings   `json:"appearance"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailNotifications:   true,
		PushNotifications:    true,
		LikeNotifications:    true,
		CommentNotifications: true,
		MedalNotifications:   true,
	}
}

func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{ProfileVisible: true, ShowEmail: false, ShowStats: true}
}

func DefaultAppearanceSettings() AppearanceSettings {
	return AppearanceSettings{Theme: "system"}
}

// decodeOver unmarshals raw on top of dst, so absent fields keep their
// defaults. A corrupt blob is logged and ignored.
func decodeOver(raw datatypes.JSON, dst any) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("[SETTINGS] ignoring unreadable settings blob: %v", err)
	}
}

func settingsFor(u *models.User) *UserSettings {
	out := &UserSettings{
		Profile:       ProfileSettings{Name: u.Name, Bio: u.Bio, Image: u.Image},
		Notifications: DefaultNotificationSettings(),
		Privacy:       DefaultPrivacySettings(),
		Appearance:    DefaultAppearanceSettings(),
	}
	decodeOver(u.SettingsNotifications, &out.Notifications)
	decodeOver(u.SettingsPrivacy, &out.Privacy)
	decodeOver(u.SettingsAppearance, &out.Appearance)
	return out
}

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

func (s *SettingsService) Get(ctx context.Context, userID string) (*UserSettings, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	return settingsFor(&user), nil
}

// Update merges raw into the settings record named by kind and persists it.
// kind is one of profile, notifications, privacy or appearance.
func (s *SettingsService) Update(ctx context.Context, userID, kind string, raw []byte) (*UserSettings, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	current := settingsFor(&user)

	var target any
	var column string
	switch kind {
	case "profile":
		target = &current.Profile
	case "notifications":
		target, column = &current.Notifications, "settings_notifications"
	case "privacy":
		target, column = &current.Privacy, "settings_privacy"
	case "appearance":
		target, column = &current.Appearance, "settings_appearance"
	default:
		return nil, ErrInvalidSettings.With(map[string]any{"type": kind})
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, ErrInvalidSettings.Wrap(err)
	}
	if err := validate.Struct(target); err != nil {
		return nil, ErrInvalidSettings.Wrap(err)
	}

	updates := map[string]any{}
	if kind == "profile" {
		updates["name"] = current.Profile.Name
		updates["bio"] = current.Profile.Bio
		updates["image"] = current.Profile.Image
	} else {
		encoded, err := json.Marshal(target)
		if err != nil {
			return nil, ErrInvalidSettings.Wrap(err)
		}
		updates[column] = datatypes.JSON(encoded)
	}

	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, storageErr(err)
	}
	return current, nil
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is the identity record plus all gamification state.
// Coins, IsPremium, PremiumExpiry, ReferralCode and ReferredBy are shared
// between components and only change inside a transaction.
type User struct {
	Base
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Name     string  `json:"name"`
	Bio      *string `gorm:"type:text" json:"bio,omitempty"`
	Image    *string `gorm:"type:text" json:"image,omitempty"`
	Password string  `json:"-"` // bcrypt hash; empty for identity-provider accounts
	Role     string  `gorm:"size:20;not null;default:'user'" json:"role"`

	Coins         int64      `gorm:"not null;default:0" json:"coins"`
	Level         int        `gorm:"not null;default:1" json:"level"`
	IsPremium     bool       `gorm:"not null;default:false" json:"is_premium"`
	PremiumExpiry *time.Time `json:"premium_expiry,omitempty"`

	ReferralCode *string `gorm:"uniqueIndex" json:"referral_code,omitempty"`
	ReferredBy   *string `gorm:"index;type:varchar(36)" json:"referred_by,omitempty"`

	SettingsNotifications datatypes.JSON `json:"-"`
	SettingsPrivacy       datatypes.JSON `json:"-"`
	SettingsAppearance    datatypes.JSON `json:"-"`
}

// PremiumActive reports whether the premium entitlement is in force at now.
// IsPremium alone can be stale until the expiry sweeper runs.
func (u *User) PremiumActive(now time.Time) bool {
	return u.IsPremium && u.PremiumExpiry != nil && u.PremiumExpiry.After(now)
}

// Session and Account mirror the identity provider's linkage tables.
type Session struct {
	Base
	UserID       string    `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	SessionToken string    `gorm:"uniqueIndex;not null" json:"-"`
	Expires      time.Time `json:"expires"`
}

type Account struct {
	Base
	UserID            string  `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Provider          string  `gorm:"uniqueIndex:idx_provider_account;not null" json:"provider"`
	ProviderAccountID string  `gorm:"uniqueIndex:idx_provider_account;not null" json:"provider_account_id"`
	RefreshToken      *string `gorm:"type:text" json:"-"`
	AccessToken       *string `gorm:"type:text" json:"-"`
}

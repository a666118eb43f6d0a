package models

import "time"

// Medal is a one-time achievement. Unlike badges it has no tiers: a user
// holds a given medal at most once.
type Medal struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	CoinReward  int64  `gorm:"not null;default:0" json:"coin_reward"`
}

type UserMedal struct {
	Base
	UserID   string    `gorm:"uniqueIndex:idx_user_medal;not null;type:varchar(36)" json:"user_id"`
	MedalID  string    `gorm:"uniqueIndex:idx_user_medal;not null;type:varchar(36)" json:"medal_id"`
	EarnedAt time.Time `gorm:"not null;index" json:"earned_at"`

	Medal *Medal `gorm:"foreignKey:MedalID" json:"medal,omitempty"`
}

package models

// Referral records one successful redemption. A user can be referred once,
// which the unique index on ReferredID enforces at the storage level.
type Referral struct {
	Base
	ReferrerID string `gorm:"index;not null;type:varchar(36)" json:"referrer_id"`
	ReferredID string `gorm:"uniqueIndex;not null;type:varchar(36)" json:"referred_id"`
	CoinReward int64  `gorm:"not null;default:0" json:"coin_reward"`

	ReferredUser *User `gorm:"foreignKey:ReferredID" json:"referred_user,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"
	TransactionSpent    TransactionType = "spent"
	TransactionReferral TransactionType = "referral"
	TransactionPremium  TransactionType = "premium"
	TransactionReward   TransactionType = "reward"
)

// Valid reports whether t is one of the known ledger types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionEarned, TransactionSpent, TransactionReferral, TransactionPremium, TransactionReward:
		return true
	}
	return false
}

// Credit reports whether the type counts towards total earned.
func (t TransactionType) Credit() bool {
	return t == TransactionEarned || t == TransactionReferral || t == TransactionReward
}

// Transaction is an immutable ledger entry. Amount is signed: credits are
// positive, debits (spent, premium) negative.
type Transaction struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string          `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Type        TransactionType `gorm:"size:16;index;not null" json:"type"`
	Amount      int64           `gorm:"not null" json:"amount"`
	Description string          `json:"description"`
	Metadata    datatypes.JSON  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

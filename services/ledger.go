package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"memeverse/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 100
)

// LedgerService owns every change to User.Coins. Each change is a
// conditional atomic update paired with exactly one Transaction row.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

type LedgerSummary struct {
	TotalEarned int64 `json:"totalEarned"`
	TotalSpent  int64 `json:"totalSpent"`
	Balance     int64 `json:"balance"`
}

// Record applies amount to the user's balance and writes the matching entry
// in its own transaction.
func (s *LedgerService) Record(ctx context.Context, userID string, typ models.TransactionType, amount int64, description string, metadata map[string]any) (*models.Transaction, error) {
	var entry *models.Transaction
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		var err error
		entry, err = recordTx(tx, userID, typ, amount, description, metadata)
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return entry, nil
}

// RecordTx is Record for callers that already hold a transaction.
func (s *LedgerService) RecordTx(tx *gorm.DB, userID string, typ models.TransactionType, amount int64, description string, metadata map[string]any) (*models.Transaction, error) {
	return recordTx(tx, userID, typ, amount, description, metadata)
}

func recordTx(tx *gorm.DB, userID string, typ models.TransactionType, amount int64, description string, metadata map[string]any) (*models.Transaction, error) {
	if !typ.Valid() {
		return nil, ErrInvalidTransactionType.With(map[string]any{"type": typ})
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	q := tx.Model(&models.User{}).Where("id = ?", userID)
	if amount < 0 {
		q = q.Where("coins >= ?", -amount)
	}
	res := q.UpdateColumn("coins", gorm.Expr("coins + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var user models.User
		if err := tx.Select("id", "coins").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return nil, insufficientCoins(-amount, user.Coins)
	}

	entry := &models.Transaction{
		UserID:      userID,
		Type:        typ,
		Amount:      amount,
		Description: description,
	}
	if len(metadata) > 0 {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		entry.Metadata = datatypes.JSON(encoded)
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	log.Printf("[LEDGER] %s %+d (%s) user=%s", typ, amount, description, userID)
	return entry, nil
}

// Summarize reports totals by sign convention: TotalSpent is the positive
// magnitude of spent and premium entries. Balance comes from User.Coins.
func (s *LedgerService) Summarize(ctx context.Context, userID string) (*LedgerSummary, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.Select("id", "coins").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}

	var rows []struct {
		Type  models.TransactionType
		Total int64
	}
	err := db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr(err)
	}

	summary := &LedgerSummary{Balance: user.Coins}
	for _, r := range rows {
		switch {
		case r.Type.Credit():
			summary.TotalEarned += r.Total
		case r.Type == models.TransactionSpent || r.Type == models.TransactionPremium:
			summary.TotalSpent -= r.Total
		}
	}
	return summary, nil
}

type HistoryFilter struct {
	Type   models.TransactionType
	Limit  int
	Offset int
}

// History lists a user's entries newest first along with the filtered total.
func (s *LedgerService) History(ctx context.Context, userID string, f HistoryFilter) ([]models.Transaction, int64, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, 0, ErrInvalidTransactionType.With(map[string]any{"type": f.Type})
	}
	if f.Limit <= 0 {
		f.Limit = historyDefaultLimit
	}
	if f.Limit > historyMaxLimit {
		f.Limit = historyMaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := s.DB.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	var out []models.Transaction
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&out).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	return out, total, nil
}

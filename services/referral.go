package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"memeverse/models"

	"gorm.io/gorm"
)

const (
	ReferralBonusNewUser  int64 = 100
	ReferralBonusReferrer int64 = 50
	referralCodePrefix          = "MEME"
)

type ReferralService struct {
	DB     *gorm.DB
	AppURL string
	Now    func() time.Time
}

func NewReferralService(db *gorm.DB, appURL string) *ReferralService {
	return &ReferralService{DB: db, AppURL: strings.TrimRight(appURL, "/"), Now: time.Now}
}

// Link is the shareable signup URL for code.
func (s *ReferralService) Link(code string) string {
	return fmt.Sprintf("%s/?ref=%s", s.AppURL, code)
}

func buildReferralCode(userID string, at time.Time) string {
	prefix := userID
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	return referralCodePrefix + strings.ToUpper(prefix) + strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
}

// GenerateCode returns the user's referral code, creating it on first use.
func (s *ReferralService) GenerateCode(ctx context.Context, userID string) (string, string, error) {
	var code string
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(forUpdate).Select("id", "referral_code").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.ReferralCode != nil && *user.ReferralCode != "" {
			code = *user.ReferralCode
			return nil
		}

		code = buildReferralCode(user.ID, s.Now())
		res := tx.Model(&models.User{}).
			Where("id = ? AND referral_code IS NULL", user.ID).
			Update("referral_code", code)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Set concurrently; return whatever won.
			if err := tx.Select("referral_code").First(&user, "id = ?", user.ID).Error; err != nil {
				return err
			}
			if user.ReferralCode != nil {
				code = *user.ReferralCode
			}
		}
		return nil
	})
	if err != nil {
		return "", "", storageErr(err)
	}
	return code, s.Link(code), nil
}

type RedeemResult struct {
	BonusToNewUser  int64  `json:"bonusToNewUser"`
	BonusToReferrer int64  `json:"bonusToReferrer"`
	TotalCoins      int64  `json:"totalCoins"`
	ReferrerName    string `json:"referrerName"`
}

// Redeem links userID to the owner of code and pays both sides. Checks run
// in order: already referred, code present, code known, not self.
func (s *ReferralService) Redeem(ctx context.Context, userID, code string) (*RedeemResult, error) {
	code = strings.TrimSpace(code)

	var result *RedeemResult
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(forUpdate).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.ReferredBy != nil {
			return ErrAlreadyReferred
		}
		if code == "" {
			return ErrCodeRequired
		}

		var referrer models.User
		if err := tx.Where("referral_code = ?", code).Take(&referrer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCode
			}
			return err
		}
		if referrer.ID == user.ID {
			return ErrSelfReferral
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND referred_by IS NULL", user.ID).
			Update("referred_by", referrer.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReferred
		}

		meta := map[string]any{"referrerId": referrer.ID, "referredId": user.ID, "code": code}
		if _, err := recordTx(tx, user.ID, models.TransactionReferral, ReferralBonusNewUser,
			"Referral bonus for joining with a referral code", meta); err != nil {
			return err
		}
		if _, err := recordTx(tx, referrer.ID, models.TransactionReferral, ReferralBonusReferrer,
			fmt.Sprintf("Referral bonus: %s joined with your code", displayName(&user)), meta); err != nil {
			return err
		}

		if err := tx.Create(&models.Referral{
			ReferrerID: referrer.ID,
			ReferredID: user.ID,
			CoinReward: ReferralBonusReferrer,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReferred
			}
			return err
		}

		if _, err := notifyTx(tx, notification{
			UserID:    referrer.ID,
			Type:      models.NotificationReferral,
			Title:     "New Referral! 🎉",
			Message:   fmt.Sprintf("%s joined using your referral code. You earned %d coins!", displayName(&user), ReferralBonusReferrer),
			ActionURL: "/referral",
			Metadata:  map[string]any{"referredId": user.ID, "coins": ReferralBonusReferrer},
		}); err != nil {
			return err
		}

		result = &RedeemResult{
			BonusToNewUser:  ReferralBonusNewUser,
			BonusToReferrer: ReferralBonusReferrer,
			TotalCoins:      user.Coins + ReferralBonusNewUser,
			ReferrerName:    displayName(&referrer),
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	log.Printf("[REFERRAL] %s redeemed code %s", userID, code)
	return result, nil
}

type ReferralStats struct {
	ReferralCode     *string           `json:"referralCode"`
	ReferralLink     *string           `json:"referralLink"`
	TotalReferrals   int64             `json:"totalReferrals"`
	TotalCoinsEarned int64             `json:"totalCoinsEarned"`
	Referrals        []models.Referral `json:"referrals"`
}

func (s *ReferralService) Stats(ctx context.Context, userID string) (*ReferralStats, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.Select("id", "referral_code").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}

	var referrals []models.Referral
	err := db.Preload("ReferredUser", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "image", "created_at")
	}).Where("referrer_id = ?", userID).Order("created_at DESC").Find(&referrals).Error
	if err != nil {
		return nil, storageErr(err)
	}

	stats := &ReferralStats{
		ReferralCode:   user.ReferralCode,
		TotalReferrals: int64(len(referrals)),
		Referrals:      referrals,
	}
	if user.ReferralCode != nil {
		link := s.Link(*user.ReferralCode)
		stats.ReferralLink = &link
	}
	for _, r := range referrals {
		stats.TotalCoinsEarned += r.CoinReward
	}
	return stats, nil
}

func displayName(u *models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return "Someone"
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"memeverse/models"

	"gorm.io/gorm"
)

type PremiumPlan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Duration int      `json:"duration"` // months
	Price    int64    `json:"price"`
	Bonus    int64    `json:"bonus,omitempty"`
	Features []string `json:"features"`
}

var premiumPlans = map[string]PremiumPlan{
	"monthly": {
		ID:       "monthly",
		Name:     "Monthly Premium",
		Duration: 1,
		Price:    1000,
		Features: []string{
			"Upload 100 memes per day (vs 10)",
			"Exclusive premium badges",
			"Priority support",
			"No ads",
			"Access to premium-only content",
			"Custom profile theme",
			"Early access to new features",
		},
	},
	"yearly": {
		ID:       "yearly",
		Name:     "Yearly Premium",
		Duration: 12,
		Price:    10000,
		Features: []string{
			"All monthly benefits",
			"Save 20% compared to monthly",
			"Upload 200 memes per day",
			"Exclusive premium badges (limited edition)",
			"VIP support priority",
			"Featured in leaderboard",
			"Special premium crown on profile",
			"Monthly bonus coins (500 coins)",
		},
	},
	"lifetime": {
		ID:       "lifetime",
		Name:     "Lifetime Premium",
		Duration: 999,
		Price:    50000,
		Bonus:    5000,
		Features: []string{
			"All yearly benefits",
			"One-time payment, lifetime access",
			"Upload unlimited memes",
			"All exclusive badges forever",
			"24/7 dedicated support",
			"Always featured at top of leaderboard",
			"Golden lifetime badge",
			"5000 coins bonus immediately",
		},
	},
}

var planOrder = []string{"monthly", "yearly", "lifetime"}

type PremiumService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewPremiumService(db *gorm.DB) *PremiumService {
	return &PremiumService{DB: db, Now: time.Now}
}

// Plans returns the catalog in display order.
func (s *PremiumService) Plans() []PremiumPlan {
	out := make([]PremiumPlan, 0, len(planOrder))
	for _, id := range planOrder {
		out = append(out, premiumPlans[id])
	}
	return out
}

func LookupPlan(id string) (PremiumPlan, bool) {
	p, ok := premiumPlans[id]
	return p, ok
}

type PurchaseResult struct {
	Plan       PremiumPlan `json:"plan"`
	ExpiryDate time.Time   `json:"expiryDate"`
	NewBalance int64       `json:"newBalance"`
}

// nextExpiry extends an active subscription from its current expiry and
// starts a fresh one from now otherwise.
func nextExpiry(u *models.User, plan PremiumPlan, now time.Time) time.Time {
	base := now
	if u.PremiumActive(now) {
		base = *u.PremiumExpiry
	}
	return base.AddDate(0, plan.Duration, 0)
}

func (s *PremiumService) Purchase(ctx context.Context, userID, planID string) (*PurchaseResult, error) {
	plan, ok := premiumPlans[planID]
	if !ok {
		return nil, ErrInvalidPlan.With(map[string]any{"planId": planID})
	}

	var result *PurchaseResult
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(forUpdate).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Coins < plan.Price {
			return insufficientCoins(plan.Price, user.Coins)
		}

		now := s.Now()
		expiry := nextExpiry(&user, plan, now)

		if _, err := recordTx(tx, user.ID, models.TransactionPremium, -plan.Price,
			fmt.Sprintf("Purchased %s", plan.Name),
			map[string]any{"planId": plan.ID, "duration": plan.Duration, "expiryDate": expiry}); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
			"is_premium":     true,
			"premium_expiry": expiry,
		}).Error; err != nil {
			return err
		}

		balance := user.Coins - plan.Price
		if plan.Bonus > 0 {
			if _, err := recordTx(tx, user.ID, models.TransactionReward, plan.Bonus,
				fmt.Sprintf("%s bonus", plan.Name),
				map[string]any{"planId": plan.ID}); err != nil {
				return err
			}
			balance += plan.Bonus
		}

		message := fmt.Sprintf("You have successfully upgraded to %s! Enjoy all premium features.", plan.Name)
		if plan.Bonus > 0 {
			message += fmt.Sprintf(" %d bonus coins were added to your balance.", plan.Bonus)
		}
		if _, err := notifyTx(tx, notification{
			UserID:    user.ID,
			Type:      models.NotificationPremium,
			Title:     "Premium Activated! 🎉",
			Message:   message,
			ActionURL: "/premium",
			Metadata:  map[string]any{"planId": plan.ID, "expiryDate": expiry},
		}); err != nil {
			return err
		}

		result = &PurchaseResult{Plan: plan, ExpiryDate: expiry, NewBalance: balance}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	log.Printf("[PREMIUM] %s purchased %s, expires %s", userID, plan.ID, result.ExpiryDate.Format(time.RFC3339))
	return result, nil
}

// Cancel expires the subscription immediately. Coins are not refunded and
// both premium fields are cleared together.
func (s *PremiumService) Cancel(ctx context.Context, userID string) error {
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(forUpdate).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		now := s.Now()
		if !user.PremiumActive(now) {
			return ErrNotPremium
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
			"is_premium":     false,
			"premium_expiry": now,
		}).Error; err != nil {
			return err
		}

		_, err := notifyTx(tx, notification{
			UserID:    user.ID,
			Type:      models.NotificationSystem,
			Title:     "Premium Expired",
			Message:   "Your premium membership has been cancelled. You can upgrade again anytime.",
			ActionURL: "/premium",
		})
		return err
	})
	if err != nil {
		return storageErr(err)
	}
	log.Printf("[PREMIUM] %s cancelled premium", userID)
	return nil
}

type PremiumStatus struct {
	IsPremium     bool       `json:"isPremium"`
	PremiumExpiry *time.Time `json:"premiumExpiry"`
	RemainingDays int        `json:"remainingDays"`
}

func remainingDays(expiry *time.Time, now time.Time) int {
	if expiry == nil || !expiry.After(now) {
		return 0
	}
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Status derives premium state from the expiry rather than trusting the
// stored flag.
func (s *PremiumService) Status(ctx context.Context, userID string) (*PremiumStatus, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Select("id", "is_premium", "premium_expiry").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	now := s.Now()
	return &PremiumStatus{
		IsPremium:     user.PremiumActive(now),
		PremiumExpiry: user.PremiumExpiry,
		RemainingDays: remainingDays(user.PremiumExpiry, now),
	}, nil
}

// ExpireLapsed clears the premium flag of every user whose expiry has passed
// and tells them about it. It returns how many users were downgraded.
func (s *PremiumService) ExpireLapsed(ctx context.Context) (int, error) {
	now := s.Now()
	var expired int
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		expired = 0
		var users []models.User
		if err := tx.Clauses(forUpdate).Select("id").
			Where("is_premium = ? AND (premium_expiry IS NULL OR premium_expiry <= ?)", true, now).
			Find(&users).Error; err != nil {
			return err
		}
		for _, u := range users {
			res := tx.Model(&models.User{}).Where("id = ? AND is_premium = ?", u.ID, true).Update("is_premium", false)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			if _, err := notifyTx(tx, notification{
				UserID:    u.ID,
				Type:      models.NotificationPremium,
				Title:     "Premium Expired",
				Message:   "Your premium subscription has expired. Renew to keep your premium features.",
				ActionURL: "/premium",
			}); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, storageErr(err)
	}
	if expired > 0 {
		log.Printf("[PREMIUM] expired %d lapsed subscriptions", expired)
	}
	return expired, nil
}

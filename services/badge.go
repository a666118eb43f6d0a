package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"memeverse/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// AwardProgress counts one occurrence toward badgeID for userID.
//
// The first award creates the row at progress 1 / target 1 and pays half the
// badge reward. Later awards bump progress; once it reaches target the full
// reward is paid, target grows by one and progress resets to zero. The user
// row is locked for the whole unit so concurrent awards serialize.
func (s *BadgeService) AwardProgress(ctx context.Context, userID, badgeID string) (*models.UserBadge, error) {
	var result *models.UserBadge
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		var badge models.Badge
		if err := tx.First(&badge, "id = ?", badgeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBadgeNotFound
			}
			return err
		}

		var user models.User
		if err := tx.Clauses(forUpdate).Select("id").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		ub, err := lockUserBadge(tx, userID, badgeID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if ub == nil {
			created := models.UserBadge{UserID: userID, BadgeID: badgeID, Progress: 1, Target: 1}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&created)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				if bonus := badge.CoinReward / 2; bonus > 0 {
					if _, err := recordTx(tx, userID, models.TransactionEarned, bonus,
						fmt.Sprintf("First progress on badge %s", badge.Name),
						map[string]any{"badgeId": badge.ID, "target": 1}); err != nil {
						return err
					}
				}
				created.Badge = &badge
				result = &created
				return nil
			}
			// Another award inserted the row first; count ours as an increment.
			if ub, err = lockUserBadge(tx, userID, badgeID); err != nil {
				return err
			}
		}

		ub.Progress++
		if ub.Progress >= ub.Target {
			reached := ub.Target
			if badge.CoinReward > 0 {
				if _, err := recordTx(tx, userID, models.TransactionEarned, badge.CoinReward,
					fmt.Sprintf("Badge earned: %s (tier %d)", badge.Name, reached),
					map[string]any{"badgeId": badge.ID, "target": reached}); err != nil {
					return err
				}
			}
			ub.Target++
			ub.Progress = 0

			if _, err := notifyTx(tx, notification{
				UserID:    userID,
				Type:      models.NotificationBadge,
				Title:     "Badge Earned! 🏅",
				Message:   fmt.Sprintf("You reached tier %d of %s and earned %d coins", reached, badge.Name, badge.CoinReward),
				ActionURL: "/profile?tab=badges",
				Metadata:  map[string]any{"badgeId": badge.ID, "coinReward": badge.CoinReward, "tier": reached},
			}); err != nil {
				return err
			}
			log.Printf("🎖️ Badge tier reached: %s tier %d → %s", badge.Name, reached, userID)
		}

		if err := tx.Model(ub).Updates(map[string]any{"progress": ub.Progress, "target": ub.Target}).Error; err != nil {
			return err
		}
		ub.Badge = &badge
		result = ub
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return result, nil
}

func lockUserBadge(tx *gorm.DB, userID, badgeID string) (*models.UserBadge, error) {
	var ub models.UserBadge
	err := tx.Clauses(forUpdate).Where("user_id = ? AND badge_id = ?", userID, badgeID).Take(&ub).Error
	if err != nil {
		return nil, err
	}
	return &ub, nil
}

func (s *BadgeService) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	if err := s.DB.WithContext(ctx).Order("category ASC, level ASC, name ASC").Find(&badges).Error; err != nil {
		return nil, storageErr(err)
	}
	return badges, nil
}

type BadgeInput struct {
	Name        string               `json:"name" validate:"required,max=100"`
	Description string               `json:"description" validate:"max=500"`
	Icon        string               `json:"icon" validate:"required"`
	Color       string               `json:"color" validate:"omitempty,hexcolor"`
	CoinReward  int64                `json:"coinReward" validate:"gte=0"`
	Level       int                  `json:"level" validate:"gte=1"`
	Category    models.BadgeCategory `json:"category" validate:"required,oneof=content social special"`
}

func (s *BadgeService) CreateBadge(ctx context.Context, in BadgeInput) (*models.Badge, error) {
	if in.Level == 0 {
		in.Level = 1
	}
	if err := validate.Struct(in); err != nil {
		return nil, ErrInvalidInput.Wrap(err)
	}
	badge := &models.Badge{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
		CoinReward:  in.CoinReward,
		Level:       in.Level,
		Category:    in.Category,
	}
	if err := s.DB.WithContext(ctx).Create(badge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBadgeExists
		}
		return nil, storageErr(err)
	}
	return badge, nil
}

func (s *BadgeService) UserBadges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	var out []models.UserBadge
	err := s.DB.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

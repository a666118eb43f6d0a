package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"memeverse/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WelcomeMedalName is handed out on signup when the catalog carries it.
const WelcomeMedalName = "Memer Pertama"

type MedalService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewMedalService(db *gorm.DB) *MedalService {
	return &MedalService{DB: db, Now: time.Now}
}

func (s *MedalService) ListMedals(ctx context.Context) ([]models.Medal, error) {
	var medals []models.Medal
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&medals).Error; err != nil {
		return nil, storageErr(err)
	}
	return medals, nil
}

// UserMedals lists what userID holds, most recent first.
func (s *MedalService) UserMedals(ctx context.Context, userID string) ([]models.UserMedal, error) {
	var out []models.UserMedal
	err := s.DB.WithContext(ctx).
		Preload("Medal").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

type MedalInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"required"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	CoinReward  int64  `json:"coinReward" validate:"gte=0"`
}

func (s *MedalService) CreateMedal(ctx context.Context, in MedalInput) (*models.Medal, error) {
	if err := validate.Struct(in); err != nil {
		return nil, ErrInvalidInput.Wrap(err)
	}
	medal := &models.Medal{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
		CoinReward:  in.CoinReward,
	}
	if err := s.DB.WithContext(ctx).Create(medal).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMedalExists
		}
		return nil, storageErr(err)
	}
	return medal, nil
}

// Award gives medalID to userID once. A second award fails with
// ErrMedalOwned and pays nothing.
func (s *MedalService) Award(ctx context.Context, userID, medalID string) (*models.UserMedal, error) {
	var result *models.UserMedal
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		var medal models.Medal
		if err := tx.First(&medal, "id = ?", medalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMedalNotFound
			}
			return err
		}
		var err error
		result, err = awardMedalTx(tx, userID, &medal, s.Now())
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return result, nil
}

func awardMedalTx(tx *gorm.DB, userID string, medal *models.Medal, now time.Time) (*models.UserMedal, error) {
	var user models.User
	if err := tx.Clauses(forUpdate).Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	um := &models.UserMedal{UserID: userID, MedalID: medal.ID, EarnedAt: now}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(um)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrMedalOwned
	}

	if medal.CoinReward > 0 {
		if _, err := recordTx(tx, userID, models.TransactionReward, medal.CoinReward,
			fmt.Sprintf("Medal earned: %s", medal.Name),
			map[string]any{"medalId": medal.ID}); err != nil {
			return nil, err
		}
	}
	if _, err := notifyTx(tx, notification{
		UserID:   userID,
		Type:     models.NotificationMedal,
		Title:    "Medali Baru!",
		Message:  fmt.Sprintf("Kamu mendapatkan medali: %s", medal.Name),
		Metadata: map[string]any{"medalId": medal.ID, "coinReward": medal.CoinReward},
	}); err != nil {
		return nil, err
	}

	log.Printf("[MEDAL] %s earned %q (+%d)", userID, medal.Name, medal.CoinReward)
	um.Medal = medal
	return um, nil
}

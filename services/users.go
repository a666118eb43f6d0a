// services/users.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"memeverse/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const WelcomeBonus int64 = 100

type UserService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db, Now: time.Now}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates a local credential account, pays the welcome bonus
// through the ledger and hands out the welcome medal if one is cataloged.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, ErrInvalidInput.Wrap(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storageErr(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Role:     "user",
		Level:    1,
	}
	err = runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		user.ID = ""
		user.Coins = 0
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		if _, err := recordTx(tx, user.ID, models.TransactionReward, WelcomeBonus, "Welcome bonus", nil); err != nil {
			return err
		}
		user.Coins = WelcomeBonus

		var medal models.Medal
		err := tx.Where("name = ?", WelcomeMedalName).Take(&medal).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil
		case err != nil:
			return err
		}
		if _, err := awardMedalTx(tx, user.ID, &medal, s.Now()); err != nil {
			return err
		}
		user.Coins += medal.CoinReward
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return user, nil
}

type ProfileStats struct {
	Memes     int64 `json:"memes"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Badges    int64 `json:"badges"`
}

type Profile struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email,omitempty"`
	Bio       *string       `json:"bio,omitempty"`
	Image     *string       `json:"image,omitempty"`
	Coins     int64         `json:"coins"`
	Level     int           `json:"level"`
	IsPremium bool          `json:"isPremium"`
	Stats     *ProfileStats `json:"stats,omitempty"`
}

// Profile returns the public view of userID, honouring their privacy
// settings unless the viewer is the user themself.
func (s *UserService) Profile(ctx context.Context, userID, viewerID string) (*Profile, error) {
	db := s.DB.WithContext(ctx)
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}

	prefs := settingsFor(&user).Privacy
	self := viewerID == user.ID
	if !prefs.ProfileVisible && !self {
		return nil, ErrUserNotFound
	}

	p := &Profile{
		ID:        user.ID,
		Name:      user.Name,
		Bio:       user.Bio,
		Image:     user.Image,
		Coins:     user.Coins,
		Level:     user.Level,
		IsPremium: user.PremiumActive(s.Now()),
	}
	if prefs.ShowEmail || self {
		p.Email = user.Email
	}
	if prefs.ShowStats || self {
		var st ProfileStats
		counts := []struct {
			dst   *int64
			model any
			query string
		}{
			{&st.Memes, &models.Meme{}, "author_id = ?"},
			{&st.Followers, &models.Follow{}, "following_id = ?"},
			{&st.Following, &models.Follow{}, "follower_id = ?"},
			{&st.Badges, &models.UserBadge{}, "user_id = ?"},
		}
		for _, c := range counts {
			if err := db.Model(c.model).Where(c.query, user.ID).Count(c.dst).Error; err != nil {
				return nil, storageErr(err)
			}
		}
		p.Stats = &st
	}
	return p, nil
}

type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Image     *string `json:"image,omitempty"`
	Coins     int64   `json:"coins"`
	Level     int     `json:"level"`
	IsPremium bool    `json:"isPremium"`
}

func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var users []models.User
	err := s.DB.WithContext(ctx).
		Select("id", "name", "image", "coins", "level", "is_premium", "premium_expiry").
		Order("coins DESC, created_at ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, storageErr(err)
	}

	now := s.Now()
	out := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		out[i] = LeaderboardEntry{
			Rank:      i + 1,
			ID:        u.ID,
			Name:      u.Name,
			Image:     u.Image,
			Coins:     u.Coins,
			Level:     u.Level,
			IsPremium: u.PremiumActive(now),
		}
	}
	return out, nil
}

type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// SearchUsers matches name or email case-insensitively.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]UserSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	db := s.DB.WithContext(ctx).Model(&models.User{}).Select("id", "name", "image").Limit(limit)
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		term := "%" + q + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	var out []UserSummary
	if err := db.Order("name ASC").Scan(&out).Error; err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

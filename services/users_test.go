package services

import (
	"context"
	"testing"
	"time"

	"memeverse/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterPaysWelcomeBonusThroughLedger(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: " Alice@Memeverse.test ", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "alice@memeverse.test", user.Email)
	require.Equal(t, WelcomeBonus, user.Coins)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))

	stored := reload(t, db, user.ID)
	require.Equal(t, WelcomeBonus, stored.Coins)
	require.Equal(t, int64(1), countRows(t, db, &models.Transaction{}, "user_id = ? AND type = ? AND amount = ?", user.ID, models.TransactionReward, WelcomeBonus))

	_, err = svc.Register(ctx, RegisterInput{Name: "Alice Two", Email: "alice@memeverse.test", Password: "secret2"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "nope", Password: "1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestProfileHonoursPrivacy(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	owner := createUser(t, db, "Bob", 10)
	viewer := createUser(t, db, "Carol", 0)
	createMeme(t, db, owner.ID, "bob-1")

	p, err := svc.Profile(ctx, owner.ID, viewer.ID)
	require.NoError(t, err)
	require.Empty(t, p.Email)
	require.NotNil(t, p.Stats)
	require.Equal(t, int64(1), p.Stats.Memes)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", owner.ID).
		Update("settings_privacy", `{"profileVisible":false,"showStats":false}`).Error)

	_, err = svc.Profile(ctx, owner.ID, viewer.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	self, err := svc.Profile(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, owner.Email, self.Email)
	require.NotNil(t, self.Stats)
}

func TestLeaderboardAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	createUser(t, db, "Low", 5)
	createUser(t, db, "High", 500)
	createUser(t, db, "Mid", 50)

	board, err := svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	require.Equal(t, "High", board[0].Name)
	require.Equal(t, 1, board[0].Rank)
	require.Equal(t, "Mid", board[1].Name)

	found, err := svc.SearchUsers(ctx, "hi", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "High", found[0].Name)
}

func TestPremiumFlagFollowsServiceClock(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	user := createUser(t, db, "Vina", 10)
	expiry := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]any{"is_premium": true, "premium_expiry": expiry}).Error)

	svc.Now = fixedClock(expiry.Add(-time.Hour))
	board, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.True(t, board[0].IsPremium)
	profile, err := svc.Profile(ctx, user.ID, user.ID)
	require.NoError(t, err)
	require.True(t, profile.IsPremium)

	svc.Now = fixedClock(expiry.Add(time.Hour))
	board, err = svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.False(t, board[0].IsPremium)
	profile, err = svc.Profile(ctx, user.ID, user.ID)
	require.NoError(t, err)
	require.False(t, profile.IsPremium)
}

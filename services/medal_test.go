package services

import (
	"context"
	"testing"
	"time"

	"memeverse/models"

	"github.com/stretchr/testify/require"
)

func TestAwardMedalOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewMedalService(db)
	earned := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.Now = fixedClock(earned)
	ctx := context.Background()
	user := createUser(t, db, "Putri", 0)

	medal, err := svc.CreateMedal(ctx, MedalInput{Name: "Raja Meme", Icon: "👑", CoinReward: 75})
	require.NoError(t, err)
	_, err = svc.CreateMedal(ctx, MedalInput{Name: "Raja Meme", Icon: "👑"})
	require.ErrorIs(t, err, ErrMedalExists)

	um, err := svc.Award(ctx, user.ID, medal.ID)
	require.NoError(t, err)
	require.True(t, earned.Equal(um.EarnedAt))
	require.Equal(t, int64(75), reload(t, db, user.ID).Coins)
	require.Equal(t, int64(1), countRows(t, db, &models.Transaction{}, "user_id = ? AND type = ? AND amount = ?", user.ID, models.TransactionReward, 75))
	require.Equal(t, int64(1), countRows(t, db, &models.Notification{}, "user_id = ? AND type = ?", user.ID, models.NotificationMedal))

	_, err = svc.Award(ctx, user.ID, medal.ID)
	require.ErrorIs(t, err, ErrMedalOwned)
	var domain *Error
	require.ErrorAs(t, err, &domain)
	require.Equal(t, KindConflict, domain.Kind)

	// The rejected award changed nothing.
	require.Equal(t, int64(75), reload(t, db, user.ID).Coins)
	require.Equal(t, int64(1), countRows(t, db, &models.UserMedal{}, "user_id = ?", user.ID))
	require.Equal(t, int64(1), countRows(t, db, &models.Notification{}, "user_id = ? AND type = ?", user.ID, models.NotificationMedal))

	_, err = svc.Award(ctx, user.ID, "nope")
	require.ErrorIs(t, err, ErrMedalNotFound)
	_, err = svc.Award(ctx, "ghost", medal.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAwardMedalHonoursMedalNotificationSetting(t *testing.T) {
	db := newTestDB(t)
	svc := NewMedalService(db)
	ctx := context.Background()
	user := createUser(t, db, "Qori", 0)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("settings_notifications", `{"medalNotifications":false}`).Error)

	medal, err := svc.CreateMedal(ctx, MedalInput{Name: "Diam-diam", Icon: "🤫"})
	require.NoError(t, err)

	_, err = svc.Award(ctx, user.ID, medal.ID)
	require.NoError(t, err)
	require.Zero(t, countRows(t, db, &models.Notification{}, "user_id = ?", user.ID))
	// Zero-reward medals leave no ledger entry.
	require.Zero(t, countRows(t, db, &models.Transaction{}, "user_id = ?", user.ID))
}

func TestUserMedalsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewMedalService(db)
	ctx := context.Background()
	user := createUser(t, db, "Rudi", 0)

	first, err := svc.CreateMedal(ctx, MedalInput{Name: "Awal", Icon: "1️⃣"})
	require.NoError(t, err)
	second, err := svc.CreateMedal(ctx, MedalInput{Name: "Lanjut", Icon: "2️⃣"})
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = fixedClock(base)
	_, err = svc.Award(ctx, user.ID, first.ID)
	require.NoError(t, err)
	svc.Now = fixedClock(base.Add(time.Hour))
	_, err = svc.Award(ctx, user.ID, second.ID)
	require.NoError(t, err)

	held, err := svc.UserMedals(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, held, 2)
	require.Equal(t, second.ID, held[0].MedalID)
	require.NotNil(t, held[0].Medal)
	require.Equal(t, "Lanjut", held[0].Medal.Name)

	catalog, err := svc.ListMedals(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
}

func TestRegisterAwardsWelcomeMedal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	medal := &models.Medal{Name: WelcomeMedalName, Icon: "🎈", CoinReward: 20}
	require.NoError(t, db.Create(medal).Error)

	user, err := NewUserService(db).Register(ctx, RegisterInput{Name: "Sinta", Email: "sinta@memeverse.test", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, WelcomeBonus+20, user.Coins)
	require.Equal(t, WelcomeBonus+20, reload(t, db, user.ID).Coins)
	require.Equal(t, int64(1), countRows(t, db, &models.UserMedal{}, "user_id = ? AND medal_id = ?", user.ID, medal.ID))
}

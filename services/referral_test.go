package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"memeverse/models"

	"github.com/stretchr/testify/require"
)

func newReferralService(t *testing.T) (*ReferralService, func() *models.User) {
	db := newTestDB(t)
	svc := NewReferralService(db, "https://memeverse.app/")
	svc.Now = fixedClock(time.UnixMilli(1760000000000))
	n := 0
	return svc, func() *models.User {
		n++
		return createUser(t, db, "User "+strconv.Itoa(n), 0)
	}
}

func TestGenerateCodeIsIdempotent(t *testing.T) {
	svc, newUser := newReferralService(t)
	ctx := context.Background()
	a := newUser()

	code, link, err := svc.GenerateCode(ctx, a.ID)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^MEME[0-9A-F-]{6}[0-9A-Z]+$`), code)
	require.Equal(t, "MEME"+strings.ToUpper(a.ID[:6])+strings.ToUpper(strconv.FormatInt(1760000000000, 36)), code)
	require.Equal(t, "https://memeverse.app/?ref="+code, link)

	svc.Now = fixedClock(time.UnixMilli(1770000000000))
	again, _, err := svc.GenerateCode(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, code, again)

	_, _, err = svc.GenerateCode(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRedeemPaysBothSides(t *testing.T) {
	svc, newUser := newReferralService(t)
	ctx := context.Background()
	a, b := newUser(), newUser()

	code, _, err := svc.GenerateCode(ctx, a.ID)
	require.NoError(t, err)

	res, err := svc.Redeem(ctx, b.ID, code)
	require.NoError(t, err)
	require.Equal(t, int64(100), res.BonusToNewUser)
	require.Equal(t, int64(50), res.BonusToReferrer)
	require.Equal(t, int64(100), res.TotalCoins)

	db := svc.DB
	gotB := reload(t, db, b.ID)
	require.Equal(t, int64(100), gotB.Coins)
	require.NotNil(t, gotB.ReferredBy)
	require.Equal(t, a.ID, *gotB.ReferredBy)
	require.Equal(t, int64(50), reload(t, db, a.ID).Coins)

	var ref models.Referral
	require.NoError(t, db.Where("referred_id = ?", b.ID).Take(&ref).Error)
	require.Equal(t, a.ID, ref.ReferrerID)
	require.Equal(t, int64(50), ref.CoinReward)

	require.Equal(t, int64(1), countRows(t, db, &models.Notification{}, "user_id = ? AND type = ?", a.ID, models.NotificationReferral))
	require.Equal(t, int64(2), countRows(t, db, &models.Transaction{}, "type = ?", models.TransactionReferral))

	stats, err := svc.Stats(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalReferrals)
	require.Equal(t, int64(50), stats.TotalCoinsEarned)
	require.Equal(t, code, *stats.ReferralCode)
	require.Equal(t, "https://memeverse.app/?ref="+code, *stats.ReferralLink)
	require.Len(t, stats.Referrals, 1)
	require.NotNil(t, stats.Referrals[0].ReferredUser)
	require.Equal(t, b.Name, stats.Referrals[0].ReferredUser.Name)
}

func TestRedeemIsNotReentrant(t *testing.T) {
	svc, newUser := newReferralService(t)
	ctx := context.Background()
	a, b := newUser(), newUser()

	code, _, err := svc.GenerateCode(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.Redeem(ctx, b.ID, code)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, b.ID, code)
	require.ErrorIs(t, err, ErrAlreadyReferred)

	// Already-referred wins over every other check.
	_, err = svc.Redeem(ctx, b.ID, "MEMENOPE")
	require.ErrorIs(t, err, ErrAlreadyReferred)

	require.Equal(t, int64(100), reload(t, svc.DB, b.ID).Coins)
	require.Equal(t, int64(50), reload(t, svc.DB, a.ID).Coins)
	require.Equal(t, int64(1), countRows(t, svc.DB, &models.Referral{}, "1 = 1"))
}

func TestRedeemRejectsBadCodes(t *testing.T) {
	svc, newUser := newReferralService(t)
	ctx := context.Background()
	a := newUser()

	code, _, err := svc.GenerateCode(ctx, a.ID)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, a.ID, "  ")
	require.ErrorIs(t, err, ErrCodeRequired)

	_, err = svc.Redeem(ctx, a.ID, "MEMEUNKNOWN")
	require.ErrorIs(t, err, ErrInvalidCode)

	_, err = svc.Redeem(ctx, a.ID, code)
	require.ErrorIs(t, err, ErrSelfReferral)

	got := reload(t, svc.DB, a.ID)
	require.Nil(t, got.ReferredBy)
	require.Zero(t, got.Coins)
	require.Zero(t, countRows(t, svc.DB, &models.Transaction{}, "1 = 1"))
}

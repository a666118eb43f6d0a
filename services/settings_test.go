package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)
	user := createUser(t, db, "Alice", 0)

	got, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, DefaultNotificationSettings(), got.Notifications)
	require.Equal(t, PrivacySettings{ProfileVisible: true, ShowEmail: false, ShowStats: true}, got.Privacy)
	require.Equal(t, "system", got.Appearance.Theme)
	require.Equal(t, "Alice", got.Profile.Name)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSettingsUpdateMergesOverCurrent(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)
	ctx := context.Background()
	user := createUser(t, db, "Bob", 0)

	_, err := svc.Update(ctx, user.ID, "notifications", []byte(`{"likeNotifications":false}`))
	require.NoError(t, err)
	got, err := svc.Update(ctx, user.ID, "notifications", []byte(`{"emailNotifications":false}`))
	require.NoError(t, err)
	require.False(t, got.Notifications.LikeNotifications)
	require.False(t, got.Notifications.EmailNotifications)
	require.True(t, got.Notifications.MedalNotifications)

	got, err = svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, got.Notifications.LikeNotifications)
	require.False(t, got.Notifications.EmailNotifications)

	got, err = svc.Update(ctx, user.ID, "appearance", []byte(`{"theme":"dark"}`))
	require.NoError(t, err)
	require.Equal(t, "dark", got.Appearance.Theme)

	got, err = svc.Update(ctx, user.ID, "profile", []byte(`{"name":"Bobby","bio":"memes only"}`))
	require.NoError(t, err)
	require.Equal(t, "Bobby", got.Profile.Name)
	require.Equal(t, "Bobby", reload(t, db, user.ID).Name)
}

func TestSettingsUpdateRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)
	ctx := context.Background()
	user := createUser(t, db, "Carol", 0)

	_, err := svc.Update(ctx, user.ID, "appearance", []byte(`{"theme":"neon"}`))
	require.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.Update(ctx, user.ID, "billing", []byte(`{}`))
	require.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.Update(ctx, user.ID, "privacy", []byte(`not json`))
	require.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.Update(ctx, user.ID, "profile", []byte(`{"name":""}`))
	require.ErrorIs(t, err, ErrInvalidSettings)

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "system", got.Appearance.Theme)
	require.Equal(t, "Carol", got.Profile.Name)
}

package services

import (
	"context"
	"testing"
	"time"

	"memeverse/models"

	"github.com/stretchr/testify/require"
)

func TestNotifyTxHonoursSettings(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "Alice", 0)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("settings_notifications", `{"likeNotifications":false}`).Error)

	n, err := notifyTx(db, notification{UserID: user.ID, Type: models.NotificationLike, Title: "Like"})
	require.NoError(t, err)
	require.Nil(t, n)

	n, err = notifyTx(db, notification{UserID: user.ID, Type: models.NotificationComment, Title: "Comment", ActionURL: "/m/1"})
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, "/m/1", *n.ActionURL)

	// Types without a preference are always delivered.
	n, err = notifyTx(db, notification{UserID: user.ID, Type: models.NotificationSystem, Title: "System"})
	require.NoError(t, err)
	require.NotNil(t, n)
}

func TestNotificationInbox(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()
	user := createUser(t, db, "Bob", 0)
	other := createUser(t, db, "Carol", 0)

	start := time.Now().Add(-time.Second)
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		n, err := notifyTx(db, notification{UserID: user.ID, Type: models.NotificationSystem, Title: title})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	foreign, err := notifyTx(db, notification{UserID: other.ID, Type: models.NotificationSystem, Title: "theirs"})
	require.NoError(t, err)

	counts, err := svc.Counts(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, &NotificationCounts{Total: 3, Unread: 3}, counts)

	require.NoError(t, svc.MarkRead(ctx, user.ID, ids[0]))
	require.ErrorIs(t, svc.MarkRead(ctx, user.ID, foreign.ID), ErrNotificationNotFound)

	unread, err := svc.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	all, err := svc.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	since, err := svc.ListSince(ctx, user.ID, NotificationCursor{CreatedAt: start})
	require.NoError(t, err)
	require.Len(t, since, 3)

	marked, err := svc.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), marked)

	counts, err = svc.Counts(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), counts.Unread)

	otherCounts, err := svc.Counts(ctx, other.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), otherCounts.Unread)
}

func TestListSinceDoesNotSkipRowsSharingATimestamp(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()
	user := createUser(t, db, "Dina", 0)

	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	total := notificationPageSize + 7
	for i := 0; i < total; i++ {
		n := &models.Notification{UserID: user.ID, Type: models.NotificationSystem, Title: "burst"}
		n.CreatedAt = at
		require.NoError(t, db.Create(n).Error)
	}

	seen := map[string]bool{}
	cursor := NotificationCursor{CreatedAt: at.Add(-time.Second)}
	for pages := 0; pages < 5; pages++ {
		page, err := svc.ListSince(ctx, user.ID, cursor)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, n := range page {
			require.False(t, seen[n.ID], "notification %s delivered twice", n.ID)
			seen[n.ID] = true
		}
		cursor = cursor.Advance(page[len(page)-1])
	}
	require.Len(t, seen, total)
}

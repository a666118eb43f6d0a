package services

import (
	"context"
	"testing"

	"memeverse/models"

	"github.com/stretchr/testify/require"
)

func TestLedgerRecordCreditsBalanceAndWritesOneEntry(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := createUser(t, db, "Alice", 40)

	entry, err := ledger.Record(context.Background(), user.ID, models.TransactionEarned, 15, "Created a meme", map[string]any{"memeId": "m1"})
	require.NoError(t, err)
	require.Equal(t, int64(15), entry.Amount)
	require.JSONEq(t, `{"memeId":"m1"}`, string(entry.Metadata))

	require.Equal(t, int64(55), reload(t, db, user.ID).Coins)
	require.Equal(t, int64(1), countRows(t, db, &models.Transaction{}, "user_id = ?", user.ID))
}

func TestLedgerRecordRejectsOverdraft(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := createUser(t, db, "Bob", 30)

	_, err := ledger.Record(context.Background(), user.ID, models.TransactionSpent, -31, "Too much", nil)
	require.ErrorIs(t, err, ErrInsufficientCoins)

	var domain *Error
	require.ErrorAs(t, err, &domain)
	require.Equal(t, KindInsufficientResource, domain.Kind)
	require.Equal(t, int64(31), domain.Details["required"])
	require.Equal(t, int64(30), domain.Details["current"])

	require.Equal(t, int64(30), reload(t, db, user.ID).Coins)
	require.Zero(t, countRows(t, db, &models.Transaction{}, "user_id = ?", user.ID))

	_, err = ledger.Record(context.Background(), user.ID, models.TransactionSpent, -30, "Exactly enough", nil)
	require.NoError(t, err)
	require.Zero(t, reload(t, db, user.ID).Coins)
}

func TestLedgerRecordValidatesInput(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	user := createUser(t, db, "Carol", 0)

	_, err := ledger.Record(context.Background(), user.ID, models.TransactionEarned, 0, "nothing", nil)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ledger.Record(context.Background(), user.ID, models.TransactionType("gift"), 5, "bad type", nil)
	require.ErrorIs(t, err, ErrInvalidTransactionType)

	_, err = ledger.Record(context.Background(), "missing", models.TransactionEarned, 5, "ghost", nil)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = ledger.Record(context.Background(), "missing", models.TransactionSpent, -5, "ghost", nil)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestLedgerSummarizeUsesPositiveSpentMagnitude(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	ctx := context.Background()
	user := createUser(t, db, "Dave", 0)

	for _, step := range []struct {
		typ    models.TransactionType
		amount int64
	}{
		{models.TransactionReward, 100},
		{models.TransactionReferral, 50},
		{models.TransactionEarned, 10},
		{models.TransactionSpent, -30},
		{models.TransactionPremium, -20},
	} {
		_, err := ledger.Record(ctx, user.ID, step.typ, step.amount, string(step.typ), nil)
		require.NoError(t, err)
	}

	summary, err := ledger.Summarize(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(160), summary.TotalEarned)
	require.Equal(t, int64(50), summary.TotalSpent)
	require.Equal(t, int64(110), summary.Balance)
	require.Equal(t, summary.TotalEarned-summary.TotalSpent, summary.Balance)

	_, err = ledger.Summarize(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestLedgerHistoryFiltersAndPages(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	ctx := context.Background()
	user := createUser(t, db, "Erin", 0)
	other := createUser(t, db, "Frank", 0)

	for i := 0; i < 3; i++ {
		_, err := ledger.Record(ctx, user.ID, models.TransactionEarned, 5, "vote", nil)
		require.NoError(t, err)
	}
	_, err := ledger.Record(ctx, user.ID, models.TransactionReward, 100, "welcome", nil)
	require.NoError(t, err)
	_, err = ledger.Record(ctx, other.ID, models.TransactionEarned, 5, "vote", nil)
	require.NoError(t, err)

	all, total, err := ledger.History(ctx, user.ID, HistoryFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, all, 4)

	earned, total, err := ledger.History(ctx, user.ID, HistoryFilter{Type: models.TransactionEarned, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, earned, 2)
	for _, e := range earned {
		require.Equal(t, models.TransactionEarned, e.Type)
		require.Equal(t, user.ID, e.UserID)
	}

	rest, _, err := ledger.History(ctx, user.ID, HistoryFilter{Type: models.TransactionEarned, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)

	_, _, err = ledger.History(ctx, user.ID, HistoryFilter{Type: "bogus"})
	require.ErrorIs(t, err, ErrInvalidTransactionType)
}

package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const maxTxAttempts = 3

// runInTx runs fn in one transaction and retries it when postgres aborts it
// with a serialization failure or a deadlock.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil || !retryable(err) {
			return err
		}
		log.Printf("[TX] attempt %d/%d aborted, retrying: %v", attempt, maxTxAttempts, err)
		if werr := sleepWithContext(ctx, time.Duration(attempt)*50*time.Millisecond); werr != nil {
			return werr
		}
	}
	return err
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

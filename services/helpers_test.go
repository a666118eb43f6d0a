package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"memeverse/database"
	"memeverse/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, coins int64) *models.User {
	t.Helper()
	u := &models.User{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@memeverse.test",
		Role:  "user",
		Coins: coins,
		Level: 1,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createBadge(t *testing.T, db *gorm.DB, name string, reward int64) *models.Badge {
	t.Helper()
	b := &models.Badge{Name: name, Icon: "🏅", CoinReward: reward, Level: 1, Category: models.BadgeCategoryContent}
	require.NoError(t, db.Create(b).Error)
	return b
}

func createMeme(t *testing.T, db *gorm.DB, authorID, title string) *models.Meme {
	t.Helper()
	m := &models.Meme{AuthorID: authorID, Title: title, ImageURL: "https://cdn.memeverse.test/memes/" + title + ".png", Category: "funny"}
	require.NoError(t, db.Create(m).Error)
	return m
}

func reload(t *testing.T, db *gorm.DB, userID string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, "id = ?", userID).Error)
	return &u
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

package database

import (
	"fmt"
	"log"

	"memeverse/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open connects to postgres or sqlite. TranslateError is on so unique
// violations surface as gorm.ErrDuplicatedKey on both drivers.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres")
		}
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Account{},
		&models.Transaction{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Medal{},
		&models.UserMedal{},
		&models.Referral{},
		&models.Notification{},
		&models.Meme{},
		&models.Vote{},
		&models.Comment{},
		&models.Bookmark{},
		&models.Report{},
		&models.Follow{},
		&models.Topic{},
		&models.TopicFollow{},
		&models.MemeTopic{},
	)
}

// SeedBadges upserts the default badge catalog by name. Existing rows keep
// their values so admin edits survive restarts.
func SeedBadges(db *gorm.DB) error {
	badges := make([]models.Badge, len(models.DefaultBadges))
	copy(badges, models.DefaultBadges)

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&badges).Error; err != nil {
		return err
	}
	log.Printf("✅ Badge catalog seeded (%d entries)", len(badges))
	return nil
}

package services

import (
	"context"
	"errors"
	"log"

	"memeverse/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MediaCleaner receives object URLs that are no longer referenced.
type MediaCleaner interface {
	Enqueue(urls []string) bool
}

type AccountService struct {
	DB    *gorm.DB
	Media MediaCleaner
}

func NewAccountService(db *gorm.DB, media MediaCleaner) *AccountService {
	return &AccountService{DB: db, Media: media}
}

// DeletionReport counts the rows removed per table.
type DeletionReport map[string]int64

// DeleteAccount removes the user and everything that references them in one
// transaction. Children go before parents; any failure rolls back every step.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, password string) (DeletionReport, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}

	if user.Password != "" {
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return nil, ErrPasswordIncorrect
		}
	}

	report := DeletionReport{}
	var mediaURLs []string
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		clear(report)
		mediaURLs = nil

		del := func(key string, model any, query string, args ...any) error {
			res := tx.Where(query, args...).Delete(model)
			if res.Error != nil {
				return res.Error
			}
			report[key] += res.RowsAffected
			return nil
		}

		steps := []struct {
			key   string
			model any
			query string
		}{
			{"notifications", &models.Notification{}, "user_id = ?"},
			{"votes", &models.Vote{}, "user_id = ?"},
			{"comments", &models.Comment{}, "user_id = ?"},
			{"bookmarks", &models.Bookmark{}, "user_id = ?"},
			{"user_badges", &models.UserBadge{}, "user_id = ?"},
			{"user_medals", &models.UserMedal{}, "user_id = ?"},
			{"transactions", &models.Transaction{}, "user_id = ?"},
			{"reports", &models.Report{}, "reporter_id = ?"},
			{"topic_follows", &models.TopicFollow{}, "user_id = ?"},
		}
		for _, st := range steps {
			if err := del(st.key, st.model, st.query, user.ID); err != nil {
				return err
			}
		}

		if err := del("follows", &models.Follow{}, "follower_id = ? OR following_id = ?", user.ID, user.ID); err != nil {
			return err
		}
		if err := del("referrals", &models.Referral{}, "referrer_id = ? OR referred_id = ?", user.ID, user.ID); err != nil {
			return err
		}
		if err := del("sessions", &models.Session{}, "user_id = ?", user.ID); err != nil {
			return err
		}
		if err := del("accounts", &models.Account{}, "user_id = ?", user.ID); err != nil {
			return err
		}

		var memes []models.Meme
		if err := tx.Select("id", "image_url").Where("author_id = ?", user.ID).Find(&memes).Error; err != nil {
			return err
		}
		if len(memes) > 0 {
			ids := make([]string, 0, len(memes))
			for _, m := range memes {
				ids = append(ids, m.ID)
				if m.ImageURL != "" {
					mediaURLs = append(mediaURLs, m.ImageURL)
				}
			}
			if err := deleteMemeDependents(tx, ids, del); err != nil {
				return err
			}
			if err := del("memes", &models.Meme{}, "id IN ?", ids); err != nil {
				return err
			}
		}

		res := tx.Delete(&models.User{}, "id = ?", user.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		report["users"] = res.RowsAffected
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[ACCOUNT] deletion of %s rolled back: %v", user.ID, err)
		return nil, ErrDeletionFailed.Wrap(err)
	}

	log.Printf("[ACCOUNT] deleted user %s: %v", user.ID, map[string]int64(report))
	if len(mediaURLs) > 0 && s.Media != nil {
		if !s.Media.Enqueue(mediaURLs) {
			log.Printf("[ACCOUNT] media cleanup queue full, %d objects left for %s", len(mediaURLs), user.ID)
		}
	}
	return report, nil
}

func deleteMemeDependents(tx *gorm.DB, memeIDs []string, del func(string, any, string, ...any) error) error {
	if err := del("meme_votes", &models.Vote{}, "meme_id IN ?", memeIDs); err != nil {
		return err
	}
	if err := del("meme_comments", &models.Comment{}, "meme_id IN ?", memeIDs); err != nil {
		return err
	}
	if err := del("meme_bookmarks", &models.Bookmark{}, "meme_id IN ?", memeIDs); err != nil {
		return err
	}
	if err := del("meme_reports", &models.Report{}, "meme_id IN ?", memeIDs); err != nil {
		return err
	}

	var perTopic []struct {
		TopicID string
		N       int64
	}
	if err := tx.Model(&models.MemeTopic{}).
		Select("topic_id, COUNT(*) AS n").
		Where("meme_id IN ?", memeIDs).
		Group("topic_id").
		Scan(&perTopic).Error; err != nil {
		return err
	}
	for _, t := range perTopic {
		if err := tx.Model(&models.Topic{}).Where("id = ?", t.TopicID).
			UpdateColumn("meme_count", gorm.Expr("CASE WHEN meme_count > ? THEN meme_count - ? ELSE 0 END", t.N, t.N)).Error; err != nil {
			return err
		}
	}
	return del("meme_topics", &models.MemeTopic{}, "meme_id IN ?", memeIDs)
}

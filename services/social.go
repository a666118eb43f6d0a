package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"memeverse/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Coins paid for community actions.
const (
	RewardCreateMeme  int64 = 10
	RewardVote        int64 = 1
	RewardComment     int64 = 5
	RewardFollowUser  int64 = 5
	RewardFollowTopic int64 = 3
)

type SocialService struct {
	DB    *gorm.DB
	Media MediaCleaner
}

func NewSocialService(db *gorm.DB, media MediaCleaner) *SocialService {
	return &SocialService{DB: db, Media: media}
}

func userExists(tx *gorm.DB, userID string) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func findMeme(tx *gorm.DB, memeID string) (*models.Meme, error) {
	var meme models.Meme
	if err := tx.First(&meme, "id = ?", memeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemeNotFound
		}
		return nil, err
	}
	return &meme, nil
}

type CreateMemeInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	ImageURL    string   `json:"imageUrl" validate:"required,url"`
	Caption     *string  `json:"caption" validate:"omitempty,max=2000"`
	Category    string   `json:"category" validate:"required,max=50"`
	IsAnonymous bool     `json:"isAnonymous"`
	TopicIDs    []string `json:"topicIds" validate:"max=5,dive,required"`
}

func (s *SocialService) CreateMeme(ctx context.Context, authorID string, in CreateMemeInput) (*models.Meme, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, ErrInvalidInput.Wrap(err)
	}
	topicIDs := uniqueStrings(in.TopicIDs)

	meme := &models.Meme{
		AuthorID:    authorID,
		Title:       in.Title,
		ImageURL:    in.ImageURL,
		Caption:     in.Caption,
		Category:    in.Category,
		IsAnonymous: in.IsAnonymous,
	}
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		meme.ID = ""
		if err := userExists(tx, authorID); err != nil {
			return err
		}
		if len(topicIDs) > 0 {
			var n int64
			if err := tx.Model(&models.Topic{}).Where("id IN ?", topicIDs).Count(&n).Error; err != nil {
				return err
			}
			if int(n) != len(topicIDs) {
				return ErrTopicNotFound
			}
		}
		if err := tx.Create(meme).Error; err != nil {
			return err
		}
		for _, topicID := range topicIDs {
			if err := tx.Create(&models.MemeTopic{MemeID: meme.ID, TopicID: topicID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Topic{}).Where("id = ?", topicID).
				UpdateColumn("meme_count", gorm.Expr("meme_count + 1")).Error; err != nil {
				return err
			}
		}
		_, err := recordTx(tx, authorID, models.TransactionEarned, RewardCreateMeme, "Created a meme",
			map[string]any{"memeId": meme.ID})
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return meme, nil
}

type MemeFilter struct {
	Category string
	Search   string
	Sort     string // viral or fresh
	Limit    int
	Offset   int
}

// ListMemes hides the author of anonymous memes.
func (s *SocialService) ListMemes(ctx context.Context, f MemeFilter) ([]models.Meme, error) {
	if f.Limit <= 0 || f.Limit > 50 {
		f.Limit = 20
	}
	q := s.DB.WithContext(ctx).Preload("Author", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "image")
	})
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(caption) LIKE ?", like, like)
	}
	if f.Sort == "viral" {
		q = q.Order("viral_score DESC").Order("created_at DESC")
	} else {
		q = q.Order("created_at DESC")
	}

	var memes []models.Meme
	if err := q.Limit(f.Limit).Offset(f.Offset).Find(&memes).Error; err != nil {
		return nil, storageErr(err)
	}
	for i := range memes {
		if memes[i].IsAnonymous {
			memes[i].AuthorID = ""
			memes[i].Author = nil
		}
	}
	return memes, nil
}

// MemeDetail is a meme with its discussion and vote tally. Votes is
// upvotes minus downvotes.
type MemeDetail struct {
	models.Meme
	Comments   []models.Comment `json:"comments"`
	Upvotes    int64            `json:"upvotes"`
	Downvotes  int64            `json:"downvotes"`
	Votes      int64            `json:"votes"`
	ViewerVote models.VoteType  `json:"viewerVote,omitempty"`
	Bookmarked bool             `json:"bookmarked"`
}

// GetMeme loads one meme for viewerID, who may be empty. The author of an
// anonymous meme is only shown to the author.
func (s *SocialService) GetMeme(ctx context.Context, memeID, viewerID string) (*MemeDetail, error) {
	db := s.DB.WithContext(ctx)
	var meme models.Meme
	err := db.Preload("Author", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "image", "coins", "level")
	}).First(&meme, "id = ?", memeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemeNotFound
		}
		return nil, storageErr(err)
	}

	d := &MemeDetail{Meme: meme}
	if err := db.Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name", "image") }).
		Where("meme_id = ?", memeID).
		Order("created_at DESC").
		Find(&d.Comments).Error; err != nil {
		return nil, storageErr(err)
	}

	var tally []struct {
		Type models.VoteType
		N    int64
	}
	if err := db.Model(&models.Vote{}).
		Select("type, COUNT(*) AS n").
		Where("meme_id = ?", memeID).
		Group("type").
		Scan(&tally).Error; err != nil {
		return nil, storageErr(err)
	}
	for _, t := range tally {
		switch t.Type {
		case models.VoteUp:
			d.Upvotes = t.N
		case models.VoteDown:
			d.Downvotes = t.N
		}
	}
	d.Votes = d.Upvotes - d.Downvotes

	if viewerID != "" {
		var own models.Vote
		err := db.Select("type").Where("meme_id = ? AND user_id = ?", memeID, viewerID).Take(&own).Error
		switch {
		case err == nil:
			d.ViewerVote = own.Type
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, storageErr(err)
		}
		var n int64
		if err := db.Model(&models.Bookmark{}).Where("meme_id = ? AND user_id = ?", memeID, viewerID).Count(&n).Error; err != nil {
			return nil, storageErr(err)
		}
		d.Bookmarked = n > 0
	}

	if d.IsAnonymous && viewerID != d.AuthorID {
		d.AuthorID = ""
		d.Author = nil
	}
	return d, nil
}

// DeleteMeme removes memeID and everything hanging off it. Only the author
// may do so. The image is queued for removal after commit.
func (s *SocialService) DeleteMeme(ctx context.Context, userID, memeID string) (DeletionReport, error) {
	report := DeletionReport{}
	var imageURL string
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		clear(report)
		meme, err := findMeme(tx.Clauses(forUpdate), memeID)
		if err != nil {
			return err
		}
		if meme.AuthorID != userID {
			return ErrNotMemeAuthor
		}
		imageURL = meme.ImageURL

		del := func(key string, model any, query string, args ...any) error {
			res := tx.Where(query, args...).Delete(model)
			if res.Error != nil {
				return res.Error
			}
			report[key] += res.RowsAffected
			return nil
		}
		if err := deleteMemeDependents(tx, []string{meme.ID}, del); err != nil {
			return err
		}
		return del("memes", &models.Meme{}, "id = ?", meme.ID)
	})
	if err != nil {
		return nil, storageErr(err)
	}

	log.Printf("[MEME] %s deleted meme %s: %v", userID, memeID, map[string]int64(report))
	if imageURL != "" && s.Media != nil && !s.Media.Enqueue([]string{imageURL}) {
		log.Printf("[MEME] media cleanup queue full, %s left in bucket", imageURL)
	}
	return report, nil
}

type VoteResult struct {
	Action    string `json:"action"` // added, switched or removed
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	Score     int64  `json:"score"`
}

// Vote casts, switches or withdraws userID's vote on memeID. Only a brand new
// vote is rewarded.
func (s *SocialService) Vote(ctx context.Context, userID, memeID string, typ models.VoteType) (*VoteResult, error) {
	if typ != models.VoteUp && typ != models.VoteDown {
		return nil, ErrInvalidVote
	}

	var result *VoteResult
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		result = &VoteResult{}
		if err := userExists(tx, userID); err != nil {
			return err
		}
		meme, err := findMeme(tx.Clauses(forUpdate), memeID)
		if err != nil {
			return err
		}

		var existing models.Vote
		err = tx.Where("meme_id = ? AND user_id = ?", memeID, userID).Take(&existing).Error
		switch {
		case err == nil && existing.Type == typ:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result.Action = "removed"
		case err == nil:
			if err := tx.Model(&existing).Update("type", typ).Error; err != nil {
				return err
			}
			result.Action = "switched"
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Vote{MemeID: memeID, UserID: userID, Type: typ}).Error; err != nil {
				return err
			}
			if _, err := recordTx(tx, userID, models.TransactionEarned, RewardVote, "Voted on a meme",
				map[string]any{"memeId": memeID}); err != nil {
				return err
			}
			if typ == models.VoteUp && meme.AuthorID != userID {
				if _, err := notifyTx(tx, notification{
					UserID:   meme.AuthorID,
					Type:     models.NotificationLike,
					Title:    "Like Baru",
					Message:  "Seseorang menyukai meme kamu",
					Metadata: map[string]any{"memeId": memeID},
				}); err != nil {
					return err
				}
			}
			result.Action = "added"
		default:
			return err
		}

		if err := tx.Model(&models.Vote{}).Where("meme_id = ? AND type = ?", memeID, models.VoteUp).Count(&result.Upvotes).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Vote{}).Where("meme_id = ? AND type = ?", memeID, models.VoteDown).Count(&result.Downvotes).Error; err != nil {
			return err
		}
		result.Score = result.Upvotes - result.Downvotes
		return tx.Model(&models.Meme{}).Where("id = ?", memeID).UpdateColumn("viral_score", result.Score).Error
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return result, nil
}

func (s *SocialService) Comment(ctx context.Context, userID, memeID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > 1000 {
		return nil, ErrInvalidInput.With(map[string]any{"field": "content"})
	}

	comment := &models.Comment{MemeID: memeID, UserID: userID, Content: content}
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		comment.ID = ""
		if err := userExists(tx, userID); err != nil {
			return err
		}
		meme, err := findMeme(tx, memeID)
		if err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if _, err := recordTx(tx, userID, models.TransactionEarned, RewardComment, "Commented on a meme",
			map[string]any{"memeId": memeID, "commentId": comment.ID}); err != nil {
			return err
		}
		if meme.AuthorID != userID {
			if _, err := notifyTx(tx, notification{
				UserID:   meme.AuthorID,
				Type:     models.NotificationComment,
				Title:    "Komentar Baru",
				Message:  "Seseorang berkomentar pada meme kamu",
				Metadata: map[string]any{"memeId": memeID, "commentId": comment.ID},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return comment, nil
}

func (s *SocialService) ListComments(ctx context.Context, memeID string, limit, offset int) ([]models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []models.Comment
	err := s.DB.WithContext(ctx).
		Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name", "image") }).
		Where("meme_id = ?", memeID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// ToggleFollow follows targetID, or unfollows when already following.
// It reports the resulting state.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	if targetID == "" {
		return false, ErrInvalidInput.With(map[string]any{"field": "targetUserId"})
	}
	if followerID == targetID {
		return false, ErrSelfFollow
	}

	var following bool
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		var follower models.User
		if err := tx.Select("id", "name").First(&follower, "id = ?", followerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if err := userExists(tx, targetID); err != nil {
			return err
		}

		res := tx.Where("follower_id = ? AND following_id = ?", followerID, targetID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = false
			return nil
		}

		if err := tx.Create(&models.Follow{FollowerID: followerID, FollowingID: targetID}).Error; err != nil {
			return err
		}
		if _, err := notifyTx(tx, notification{
			UserID:    targetID,
			Type:      models.NotificationFollow,
			Title:     "New Follower",
			Message:   fmt.Sprintf("%s started following you", displayName(&follower)),
			ActionURL: "/profile/" + followerID,
			Metadata:  map[string]any{"followerId": followerID, "followerName": follower.Name},
		}); err != nil {
			return err
		}
		if _, err := recordTx(tx, followerID, models.TransactionEarned, RewardFollowUser, "Followed a user",
			map[string]any{"targetUserId": targetID}); err != nil {
			return err
		}
		following = true
		return nil
	})
	if err != nil {
		return false, storageErr(err)
	}
	return following, nil
}

type FollowStats struct {
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"isFollowing"`
}

func (s *SocialService) FollowStats(ctx context.Context, userID, viewerID string) (*FollowStats, error) {
	db := s.DB.WithContext(ctx)
	var st FollowStats
	if err := db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&st.Followers).Error; err != nil {
		return nil, storageErr(err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&st.Following).Error; err != nil {
		return nil, storageErr(err)
	}
	if viewerID != "" && viewerID != userID {
		var n int64
		if err := db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", viewerID, userID).Count(&n).Error; err != nil {
			return nil, storageErr(err)
		}
		st.IsFollowing = n > 0
	}
	return &st, nil
}

type TopicInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Icon        *string `json:"icon"`
}

func (s *SocialService) CreateTopic(ctx context.Context, in TopicInput) (*models.Topic, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, ErrInvalidInput.Wrap(err)
	}
	topic := &models.Topic{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Icon:        in.Icon,
	}
	if topic.Slug == "" {
		return nil, ErrInvalidInput.With(map[string]any{"field": "name"})
	}
	if err := s.DB.WithContext(ctx).Create(topic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTopicExists
		}
		return nil, storageErr(err)
	}
	return topic, nil
}

func (s *SocialService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var out []models.Topic
	if err := s.DB.WithContext(ctx).Order("meme_count DESC, name ASC").Find(&out).Error; err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *SocialService) ToggleTopicFollow(ctx context.Context, userID, topicID string) (bool, error) {
	var following bool
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Topic{}).Where("id = ?", topicID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrTopicNotFound
		}

		res := tx.Where("user_id = ? AND topic_id = ?", userID, topicID).Delete(&models.TopicFollow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = false
			return nil
		}
		if err := tx.Create(&models.TopicFollow{UserID: userID, TopicID: topicID}).Error; err != nil {
			return err
		}
		if _, err := recordTx(tx, userID, models.TransactionEarned, RewardFollowTopic, "Followed a topic",
			map[string]any{"topicId": topicID}); err != nil {
			return err
		}
		following = true
		return nil
	})
	if err != nil {
		return false, storageErr(err)
	}
	return following, nil
}

func (s *SocialService) ToggleBookmark(ctx context.Context, userID, memeID string) (bool, error) {
	var bookmarked bool
	err := runInTx(ctx, s.DB, func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		if _, err := findMeme(tx, memeID); err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND meme_id = ?", userID, memeID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			bookmarked = false
			return nil
		}
		if err := tx.Create(&models.Bookmark{UserID: userID, MemeID: memeID}).Error; err != nil {
			return err
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, storageErr(err)
	}
	return bookmarked, nil
}

func (s *SocialService) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	var out []models.Bookmark
	err := s.DB.WithContext(ctx).
		Preload("Meme").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

package models

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

type Meme struct {
	Base
	AuthorID    string  `gorm:"index;not null;type:varchar(36)" json:"author_id"`
	Title       string  `gorm:"not null" json:"title"`
	ImageURL    string  `gorm:"type:text;not null" json:"image_url"`
	Caption     *string `gorm:"type:text" json:"caption,omitempty"`
	Category    string  `gorm:"index;not null" json:"category"`
	IsAnonymous bool    `gorm:"not null;default:false" json:"is_anonymous"`
	ViralScore  int64   `gorm:"not null;default:0;index" json:"viral_score"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

type Vote struct {
	Base
	MemeID string   `gorm:"uniqueIndex:idx_vote_meme_user;not null;type:varchar(36)" json:"meme_id"`
	UserID string   `gorm:"uniqueIndex:idx_vote_meme_user;index;not null;type:varchar(36)" json:"user_id"`
	Type   VoteType `gorm:"size:8;not null" json:"type"`
}

type Comment struct {
	Base
	MemeID  string `gorm:"index;not null;type:varchar(36)" json:"meme_id"`
	UserID  string `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Content string `gorm:"type:text;not null" json:"content"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type Bookmark struct {
	Base
	MemeID string `gorm:"uniqueIndex:idx_bookmark_meme_user;not null;type:varchar(36)" json:"meme_id"`
	UserID string `gorm:"uniqueIndex:idx_bookmark_meme_user;index;not null;type:varchar(36)" json:"user_id"`

	Meme *Meme `gorm:"foreignKey:MemeID" json:"meme,omitempty"`
}

// Report is a user complaint about a meme.
type Report struct {
	Base
	ReporterID string `gorm:"index;not null;type:varchar(36)" json:"reporter_id"`
	MemeID     string `gorm:"index;not null;type:varchar(36)" json:"meme_id"`
	Reason     string `gorm:"type:text" json:"reason"`
}

package models

type Follow struct {
	Base
	FollowerID  string `gorm:"uniqueIndex:idx_follower_following;not null;type:varchar(36)" json:"follower_id"`
	FollowingID string `gorm:"uniqueIndex:idx_follower_following;index;not null;type:varchar(36)" json:"following_id"`
}

type Topic struct {
	Base
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string  `gorm:"uniqueIndex;not null" json:"slug"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	MemeCount   int64   `gorm:"not null;default:0" json:"meme_count"`
}

type TopicFollow struct {
	Base
	UserID  string `gorm:"uniqueIndex:idx_user_topic;not null;type:varchar(36)" json:"user_id"`
	TopicID string `gorm:"uniqueIndex:idx_user_topic;index;not null;type:varchar(36)" json:"topic_id"`
}

type MemeTopic struct {
	Base
	MemeID  string `gorm:"uniqueIndex:idx_meme_topic;not null;type:varchar(36)" json:"meme_id"`
	TopicID string `gorm:"uniqueIndex:idx_meme_topic;index;not null;type:varchar(36)" json:"topic_id"`
}

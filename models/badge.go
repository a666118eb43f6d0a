package models

// BadgeCategory groups badges in the catalog.
type BadgeCategory string

const (
	BadgeCategoryContent BadgeCategory = "content"
	BadgeCategorySocial  BadgeCategory = "social"
	BadgeCategorySpecial BadgeCategory = "special"
)

// Badge is a catalog entry describing an achievement type.
type Badge struct {
	Base
	Name        string        `gorm:"uniqueIndex;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Icon        string        `json:"icon"`
	Color       string        `json:"color"`
	CoinReward  int64         `gorm:"not null;default:0" json:"coin_reward"`
	Level       int           `gorm:"not null;default:1" json:"level"`
	Category    BadgeCategory `gorm:"size:16;not null;default:'special'" json:"category"`
}

// UserBadge is a user's leveled progress toward one badge. Whenever Progress
// reaches Target the tier is paid out, Target grows by one and Progress resets.
type UserBadge struct {
	Base
	UserID   string `gorm:"uniqueIndex:idx_user_badge;not null;type:varchar(36)" json:"user_id"`
	BadgeID  string `gorm:"uniqueIndex:idx_user_badge;not null;type:varchar(36)" json:"badge_id"`
	Progress int    `gorm:"not null;default:0" json:"progress"`
	Target   int    `gorm:"not null;default:1" json:"target"`

	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

// DefaultBadges is the catalog seeded at startup (upsert by name).
var DefaultBadges = []Badge{
	{Name: "Pendaftar", Description: "Buat akun dan login", Icon: "🌟", Color: "#FFD700", CoinReward: 0, Level: 1, Category: BadgeCategorySocial},
	{Name: "Meme Pertama", Description: "Buat meme pertama", Icon: "🎉", Color: "#FF6B6B", CoinReward: 10, Level: 1, Category: BadgeCategoryContent},
	{Name: "Kreator Rajin", Description: "Buat 5 meme", Icon: "🎭", Color: "#4ECDC4", CoinReward: 25, Level: 1, Category: BadgeCategoryContent},
	{Name: "Kreator Aktif", Description: "Buat 10 meme", Icon: "🎨", Color: "#95D5B2", CoinReward: 50, Level: 2, Category: BadgeCategoryContent},
	{Name: "Master Kreator", Description: "Buat 50 meme", Icon: "👑", Color: "#FF6384", CoinReward: 150, Level: 3, Category: BadgeCategoryContent},
	{Name: "Komen Pertama", Description: "Tulis komentar pertama", Icon: "💬", Color: "#A8DADC", CoinReward: 5, Level: 1, Category: BadgeCategorySocial},
	{Name: "Pembicara", Description: "Tulis 25 komentar", Icon: "🗣️", Color: "#45B7D1", CoinReward: 25, Level: 2, Category: BadgeCategorySocial},
	{Name: "Komunitas", Description: "Tulis 100 komentar", Icon: "👥", Color: "#96CEB4", CoinReward: 100, Level: 3, Category: BadgeCategorySocial},
	{Name: "Penggemar", Description: "Like 10 meme", Icon: "❤️", Color: "#FF6B9D", CoinReward: 15, Level: 1, Category: BadgeCategorySocial},
	{Name: "Populer", Description: "Dapatkan 100 like", Icon: "🔥", Color: "#E74C3C", CoinReward: 50, Level: 2, Category: BadgeCategorySocial},
	{Name: "Viral Star", Description: "Dapatkan 1000 like", Icon: "⭐", Color: "#FFD93D", CoinReward: 200, Level: 3, Category: BadgeCategoryContent},
	{Name: "Top 10", Description: "Masuk top 10 leaderboard", Icon: "🏆", Color: "#FFC300", CoinReward: 75, Level: 2, Category: BadgeCategorySpecial},
	{Name: "Top 3", Description: "Masuk top 3 leaderboard", Icon: "🥇", Color: "#FFD700", CoinReward: 150, Level: 3, Category: BadgeCategorySpecial},
	{Name: "Streak 7 Hari", Description: "Login 7 hari berturut-turut", Icon: "🔥", Color: "#FF9500", CoinReward: 30, Level: 2, Category: BadgeCategorySpecial},
	{Name: "Level 5", Description: "Capai level 5", Icon: "⬆️", Color: "#4ADE80", CoinReward: 25, Level: 1, Category: BadgeCategorySpecial},
	{Name: "Level 15", Description: "Capai level 15", Icon: "🚀", Color: "#70E000", CoinReward: 100, Level: 2, Category: BadgeCategorySpecial},
	{Name: "Explorer", Description: "Lihat 100 meme", Icon: "👀", Color: "#9B59B6", CoinReward: 20, Level: 1, Category: BadgeCategoryContent},
	{Name: "Kolektor", Description: "Bookmark 10 meme", Icon: "📚", Color: "#6C5CE7", CoinReward: 15, Level: 1, Category: BadgeCategoryContent},
	{Name: "Viral Legend", Description: "Meme viral 10000+ views", Icon: "👑", Color: "#FF4757", CoinReward: 300, Level: 4, Category: BadgeCategorySpecial},
	{Name: "Video Kreator", Description: "Upload 5 video", Icon: "🎬", Color: "#E94560", CoinReward: 100, Level: 2, Category: BadgeCategoryContent},
	{Name: "Full Stack", Description: "Capai semua badge kreator", Icon: "🌟", Color: "#F39C12", CoinReward: 500, Level: 5, Category: BadgeCategorySpecial},
}

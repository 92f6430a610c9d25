package leaderboard

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one row of the public ranking.
type Entry struct {
	Rank             int        `json:"rank"`
	UserID           uuid.UUID  `json:"user_id" db:"id"`
	Username         string     `json:"username" db:"username"`
	DisplayName      *string    `json:"display_name" db:"display_name"`
	AvatarURL        *string    `json:"avatar_url" db:"avatar_url"`
	CurrentStreak    int        `json:"current_streak" db:"current_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	LastStreakDayUTC *time.Time `json:"last_streak_day_utc" db:"last_streak_day_utc"`
	IsVerified       bool       `json:"is_verified" db:"is_verified"`
}

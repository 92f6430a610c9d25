package user

import (
	"time"

	"github.com/google/uuid"
)

// Status is the moderation state of an account. Only approved users appear
// on public rankings or are touched by the streak sweep.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// User is one builder's record, streak state included. The streak fields
// are only ever written through update approval, the sweep, or an explicit
// admin override.
type User struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ClerkID          string     `json:"-" db:"clerk_id"`
	Username         string     `json:"username" db:"username"`
	DisplayName      *string    `json:"display_name" db:"display_name"`
	Email            *string    `json:"-" db:"email"`
	AvatarURL        *string    `json:"avatar_url" db:"avatar_url"`
	Status           Status     `json:"status" db:"status"`
	CurrentStreak    int        `json:"current_streak" db:"current_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	LastStreakDayUTC *time.Time `json:"last_streak_day_utc" db:"last_streak_day_utc"`
	IsAdmin          bool       `json:"is_admin" db:"is_admin"`
	IsVerified       bool       `json:"is_verified" db:"is_verified"`
	IsHidden         bool       `json:"is_hidden" db:"is_hidden"`
	TwitterFollowers *int       `json:"twitter_followers" db:"twitter_followers"`
	WebsiteURL       *string    `json:"website_url" db:"website_url"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// SyncRequest carries the identity fields delivered by the identity
// provider on login or profile change.
type SyncRequest struct {
	ClerkID     string
	Username    string
	DisplayName string
	Email       string
	AvatarURL   string
}

// ApproveRequest promotes a pending user, optionally seeding a streak they
// built up before joining.
type ApproveRequest struct {
	InitialStreak int `json:"initial_streak"`
}

// StreakAdjustment force-sets a user's streak. Exactly one of Delta or
// Value must be present.
type StreakAdjustment struct {
	Delta *int `json:"delta,omitempty"`
	Value *int `json:"value,omitempty"`
}

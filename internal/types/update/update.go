package update

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the moderation state of a daily update. An update moves
// out of pending exactly once; only approval counts toward a streak.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Update is one submitted proof-of-work covering a single UTC day.
type Update struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	UserID       uuid.UUID    `json:"user_id" db:"user_id"`
	PostDayUTC   time.Time    `json:"post_day_utc" db:"post_day_utc"`
	PostURL      *string      `json:"post_url" db:"post_url"`
	ReviewStatus ReviewStatus `json:"review_status" db:"review_status"`
	ReviewedAt   *time.Time   `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// SubmitRequest is the body for submitting today's update.
type SubmitRequest struct {
	PostURL string `json:"post_url"`
}

// PendingItem is a queue row for the moderation surface: the update plus
// enough user context to review it.
type PendingItem struct {
	Update
	Username      string `json:"username" db:"username"`
	CurrentStreak int    `json:"current_streak" db:"current_streak"`
}

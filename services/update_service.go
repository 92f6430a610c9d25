package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"nonZeroDayAPI/internal/apperr"
	"nonZeroDayAPI/internal/streak"
	"nonZeroDayAPI/internal/types/update"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type UpdateService struct {
	db *pgxpool.Pool
}

func NewUpdateService(db *pgxpool.Pool) *UpdateService {
	return &UpdateService{db: db}
}

// Submit files a pending update covering the submitter's current UTC day.
// One live update per user per day: a second submission for the same day is
// rejected, but a rejected one can be replaced.
func (s *UpdateService) Submit(ctx context.Context, clerkID string, req *update.SubmitRequest) (*update.Update, error) {
	if len(req.PostURL) > 2048 {
		return nil, apperr.Validation("post_url", "too long")
	}

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	day := streak.ActivityDay(time.Now())

	up := &update.Update{}
	err = s.db.QueryRow(ctx, `
	INSERT INTO user_updates (id, user_id, post_day_utc, post_url, review_status, created_at)
	VALUES ($1, $2, $3, NULLIF($4, ''), 'pending', NOW())
	RETURNING id, user_id, post_day_utc, post_url, review_status, reviewed_at, created_at`,
		uuid.New(), userID, day, req.PostURL,
	).Scan(&up.ID, &up.UserID, &up.PostDayUTC, &up.PostURL,
		&up.ReviewStatus, &up.ReviewedAt, &up.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.ErrDuplicateDay
		}
		return nil, fmt.Errorf("failed to create update: %w", err)
	}

	return up, nil
}

// ListForUser returns a user's own submissions, newest first, whatever
// their review state.
func (s *UpdateService) ListForUser(ctx context.Context, clerkID string) ([]update.Update, error) {
	rows, err := s.db.Query(ctx, `
	SELECT up.id, up.user_id, up.post_day_utc, up.post_url, up.review_status, up.reviewed_at, up.created_at
	FROM user_updates up
	JOIN users u ON u.id = up.user_id
	WHERE u.clerk_id = $1
	ORDER BY up.post_day_utc DESC`, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	defer rows.Close()

	updates := []update.Update{}
	for rows.Next() {
		var up update.Update
		if err := rows.Scan(&up.ID, &up.UserID, &up.PostDayUTC, &up.PostURL,
			&up.ReviewStatus, &up.ReviewedAt, &up.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan update: %w", err)
		}
		updates = append(updates, up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read updates: %w", err)
	}
	return updates, nil
}

// ListPending returns the moderation queue, oldest first, with the
// submitter's handle and streak for context.
func (s *UpdateService) ListPending(ctx context.Context) ([]update.PendingItem, error) {
	rows, err := s.db.Query(ctx, `
	SELECT up.id, up.user_id, up.post_day_utc, up.post_url, up.review_status, up.reviewed_at, up.created_at,
	       u.username, u.current_streak
	FROM user_updates up
	JOIN users u ON u.id = up.user_id
	WHERE up.review_status = 'pending'
	ORDER BY up.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending updates: %w", err)
	}
	defer rows.Close()

	items := []update.PendingItem{}
	for rows.Next() {
		var it update.PendingItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.PostDayUTC, &it.PostURL,
			&it.ReviewStatus, &it.ReviewedAt, &it.CreatedAt,
			&it.Username, &it.CurrentStreak); err != nil {
			return nil, fmt.Errorf("failed to scan pending update: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pending updates: %w", err)
	}
	return items, nil
}

// Approve marks a pending update approved and advances the submitter's
// streak, both inside one transaction. The streak write is a conditional
// update keyed on the previously read counter; if another writer got there
// first nothing is changed and the caller may retry with fresh state.
func (s *UpdateService) Approve(ctx context.Context, updateID uuid.UUID) (*update.Update, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin approval: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		userID  uuid.UUID
		status  update.ReviewStatus
		postDay time.Time
		rec     streak.Record
	)
	err = tx.QueryRow(ctx, `
	SELECT up.user_id, up.review_status, up.post_day_utc,
	       u.current_streak, u.longest_streak, u.last_streak_day_utc
	FROM user_updates up
	JOIN users u ON u.id = up.user_id
	WHERE up.id = $1`, updateID,
	).Scan(&userID, &status, &postDay, &rec.Current, &rec.Longest, &rec.LastDay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load update: %w", err)
	}

	if status != update.ReviewPending {
		return nil, apperr.Validation("review_status", "update has already been reviewed")
	}
	if streak.DaysBetween(time.Now(), postDay) > 0 {
		return nil, apperr.Validation("post_day_utc", "update covers a future day")
	}

	next := streak.Advance(rec, postDay)

	up := &update.Update{}
	err = tx.QueryRow(ctx, `
	UPDATE user_updates
	SET review_status = 'approved', reviewed_at = NOW()
	WHERE id = $1 AND review_status = 'pending'
	RETURNING id, user_id, post_day_utc, post_url, review_status, reviewed_at, created_at`,
		updateID,
	).Scan(&up.ID, &up.UserID, &up.PostDayUTC, &up.PostURL,
		&up.ReviewStatus, &up.ReviewedAt, &up.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to mark update approved: %w", err)
	}

	tag, err := tx.Exec(ctx, `
	UPDATE users
	SET current_streak = $2, longest_streak = $3, last_streak_day_utc = $4, updated_at = NOW()
	WHERE id = $1 AND current_streak = $5`,
		userID, next.Current, next.Longest, next.LastDay, rec.Current)
	if err != nil {
		return nil, fmt.Errorf("failed to advance streak: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.ErrConcurrentModification
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	log.Printf("Approved update %s: user %s streak %d -> %d", updateID, userID, rec.Current, next.Current)
	return up, nil
}

// Reject flips a pending update to rejected. The submitter's streak is
// untouched, and the day frees up for a resubmission.
func (s *UpdateService) Reject(ctx context.Context, updateID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
	UPDATE user_updates
	SET review_status = 'rejected', reviewed_at = NOW()
	WHERE id = $1 AND review_status = 'pending'`, updateID)
	if err != nil {
		return fmt.Errorf("failed to reject update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_updates WHERE id = $1)`, updateID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check update: %w", err)
		}
		if !exists {
			return apperr.ErrNotFound
		}
		return apperr.Validation("review_status", "update has already been reviewed")
	}
	return nil
}

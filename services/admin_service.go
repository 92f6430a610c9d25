package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"nonZeroDayAPI/internal/apperr"
	"nonZeroDayAPI/internal/streak"
	"nonZeroDayAPI/internal/types/admin"
	"nonZeroDayAPI/internal/types/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminService owns the moderation paths: user approval and rejection,
// direct streak overrides, and bulk actions. Overrides bypass the
// one-step-per-day rule on purpose; the only rule left is that a streak
// never goes negative.
type AdminService struct {
	db *pgxpool.Pool
}

func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{db: db}
}

// ListPendingUsers returns accounts awaiting moderation, oldest first.
func (s *AdminService) ListPendingUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE status = 'pending' ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pending users: %w", err)
	}
	return users, nil
}

// ApproveUser promotes a pending account and seeds its streak, so builders
// who kept a streak before joining do not start from zero. The streak seed
// follows override semantics: clamped at zero, longest raised to match,
// last day stamped to today.
func (s *AdminService) ApproveUser(ctx context.Context, id uuid.UUID, initialStreak int) (*user.User, error) {
	if initialStreak < 0 {
		return nil, apperr.Validation("initial_streak", "must not be negative")
	}

	prev, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	next := streak.Override(prev, initialStreak, time.Now())

	u, err := scanUser(s.db.QueryRow(ctx, `
	UPDATE users
	SET status = 'approved', current_streak = $2, longest_streak = $3,
	    last_streak_day_utc = $4, updated_at = NOW()
	WHERE id = $1 AND current_streak = $5
	RETURNING `+userColumns,
		id, next.Current, next.Longest, next.LastDay, prev.Current))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to approve user: %w", err)
	}

	log.Printf("Approved user %s with initial streak %d", id, initialStreak)
	return u, nil
}

// RejectUser marks an account rejected. Its record stays around so a repeat
// sync does not recreate a fresh pending account.
func (s *AdminService) RejectUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET status = 'rejected', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to reject user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteUser removes an account and, via cascade, all of its updates.
func (s *AdminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AdjustStreak force-sets one user's streak from a delta or an absolute
// value. The write is conditional on the counter the adjustment was
// computed from; losing that race changes nothing and is reported.
func (s *AdminService) AdjustStreak(ctx context.Context, id uuid.UUID, adj *user.StreakAdjustment) (*user.User, error) {
	if (adj.Delta == nil) == (adj.Value == nil) {
		return nil, apperr.Validation("adjustment", "exactly one of delta or value is required")
	}

	prev, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var next streak.Record
	if adj.Delta != nil {
		next = streak.OverrideDelta(prev, *adj.Delta, now)
	} else {
		next = streak.Override(prev, *adj.Value, now)
	}

	u, err := scanUser(s.db.QueryRow(ctx, `
	UPDATE users
	SET current_streak = $2, longest_streak = $3, last_streak_day_utc = $4, updated_at = NOW()
	WHERE id = $1 AND current_streak = $5
	RETURNING `+userColumns,
		id, next.Current, next.Longest, next.LastDay, prev.Current))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to adjust streak: %w", err)
	}

	return u, nil
}

// Bulk applies one action to every listed user, best-effort: a failing
// member is reported and the rest of the batch continues. Each member is
// its own atomic update; the batch as a whole is not transactional.
func (s *AdminService) Bulk(ctx context.Context, req *admin.BulkRequest) (*admin.BulkSummary, error) {
	if len(req.IDs) == 0 {
		return nil, apperr.Validation("ids", "must not be empty")
	}

	one := 1
	minusOne := -1

	summary := &admin.BulkSummary{
		Requested: len(req.IDs),
		Results:   make([]admin.BulkResult, 0, len(req.IDs)),
	}
	for _, id := range req.IDs {
		var err error
		switch req.Action {
		case admin.BulkIncrement:
			_, err = s.AdjustStreak(ctx, id, &user.StreakAdjustment{Delta: &one})
		case admin.BulkDecrement:
			_, err = s.AdjustStreak(ctx, id, &user.StreakAdjustment{Delta: &minusOne})
		case admin.BulkDelete:
			err = s.DeleteUser(ctx, id)
		default:
			return nil, apperr.Validation("action", "must be increment, decrement or delete")
		}

		res := admin.BulkResult{ID: id, OK: err == nil}
		if err != nil {
			res.Error = err.Error()
			summary.Failed++
			log.Printf("Bulk %s failed for user %s: %v", req.Action, id, err)
		} else {
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, res)
	}

	return summary, nil
}

func (s *AdminService) getRecord(ctx context.Context, id uuid.UUID) (streak.Record, error) {
	var rec streak.Record
	err := s.db.QueryRow(ctx,
		`SELECT current_streak, longest_streak, last_streak_day_utc FROM users WHERE id = $1`, id,
	).Scan(&rec.Current, &rec.Longest, &rec.LastDay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, apperr.ErrNotFound
		}
		return rec, fmt.Errorf("failed to load streak record: %w", err)
	}
	return rec, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"nonZeroDayAPI/internal/adminlist"
	"nonZeroDayAPI/internal/apperr"
	"nonZeroDayAPI/internal/types/leaderboard"
	"nonZeroDayAPI/internal/types/update"
	"nonZeroDayAPI/internal/types/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userColumns is the canonical column list for scanning a full user row.
const userColumns = `id, clerk_id, username, display_name, email, avatar_url, status,
	current_streak, longest_streak, last_streak_day_utc,
	is_admin, is_verified, is_hidden, twitter_followers, website_url,
	created_at, updated_at`

type UserService struct {
	db     *pgxpool.Pool
	admins *adminlist.List
}

func NewUserService(db *pgxpool.Pool, admins *adminlist.List) *UserService {
	return &UserService{db: db, admins: admins}
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.ClerkID,
		&u.Username,
		&u.DisplayName,
		&u.Email,
		&u.AvatarURL,
		&u.Status,
		&u.CurrentStreak,
		&u.LongestStreak,
		&u.LastStreakDayUTC,
		&u.IsAdmin,
		&u.IsVerified,
		&u.IsHidden,
		&u.TwitterFollowers,
		&u.WebsiteURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SyncFromIdentity creates or refreshes a user from the identity provider.
// The first sync is account creation: status starts as pending unless the
// handle or email is on the admin allow-list, which grants immediate
// approval and the admin flag. Later syncs only refresh profile fields and
// never demote an account.
func (s *UserService) SyncFromIdentity(ctx context.Context, req *user.SyncRequest) (*user.User, error) {
	if req.ClerkID == "" {
		return nil, apperr.Validation("clerk_id", "must not be empty")
	}
	if req.Username == "" {
		return nil, apperr.Validation("username", "must not be empty")
	}

	isAdmin := s.admins.Contains(req.Username, req.Email)
	status := user.StatusPending
	if isAdmin {
		status = user.StatusApproved
	}

	query := `
	INSERT INTO users (id, clerk_id, username, display_name, email, avatar_url, status, is_admin, created_at, updated_at)
	VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, NOW(), NOW())
	ON CONFLICT (clerk_id) DO UPDATE SET
		username     = EXCLUDED.username,
		display_name = COALESCE(EXCLUDED.display_name, users.display_name),
		email        = COALESCE(EXCLUDED.email, users.email),
		avatar_url   = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
		is_admin     = users.is_admin OR EXCLUDED.is_admin,
		status       = CASE WHEN EXCLUDED.is_admin AND users.status = 'pending'
		                    THEN 'approved' ELSE users.status END,
		updated_at   = NOW()
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query,
		uuid.New(), req.ClerkID, req.Username, req.DisplayName, req.Email, req.AvatarURL,
		status, isAdmin,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE clerk_id = $1`, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetPublicProfile returns an approved user's profile together with their
// approved update history, newest day first. Pending and rejected accounts
// are invisible here.
func (s *UserService) GetPublicProfile(ctx context.Context, username string) (*user.User, []update.Update, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND status = 'approved'`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperr.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}

	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, post_day_utc, post_url, review_status, reviewed_at, created_at
	FROM user_updates
	WHERE user_id = $1 AND review_status = 'approved'
	ORDER BY post_day_utc DESC`, u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list approved updates: %w", err)
	}
	defer rows.Close()

	updates := []update.Update{}
	for rows.Next() {
		var up update.Update
		if err := rows.Scan(&up.ID, &up.UserID, &up.PostDayUTC, &up.PostURL,
			&up.ReviewStatus, &up.ReviewedAt, &up.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan update: %w", err)
		}
		updates = append(updates, up)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read updates: %w", err)
	}

	return u, updates, nil
}

// GetLeaderboard ranks approved, visible users by current streak. Ties go
// to the longer historical streak, then to whoever joined first.
func (s *UserService) GetLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := s.db.Query(ctx, `
	SELECT id, username, display_name, avatar_url,
	       current_streak, longest_streak, last_streak_day_utc, is_verified
	FROM users
	WHERE status = 'approved' AND is_hidden = FALSE
	ORDER BY current_streak DESC, longest_streak DESC, created_at ASC
	LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []leaderboard.Entry{}
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.UserID, &e.Username, &e.DisplayName, &e.AvatarURL,
			&e.CurrentStreak, &e.LongestStreak, &e.LastStreakDayUTC, &e.IsVerified); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return entries, nil
}

// DeleteByClerkID removes an account and, via cascade, its updates. Called
// from the identity provider's user.deleted webhook.
func (s *UserService) DeleteByClerkID(ctx context.Context, clerkID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	log.Printf("Deleted user for clerk_id %s", clerkID)
	return nil
}

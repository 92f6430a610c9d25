package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"nonZeroDayAPI/internal/streak"
	"nonZeroDayAPI/internal/types/sweep"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SweepService struct {
	db *pgxpool.Pool
}

func NewSweepService(db *pgxpool.Pool) *SweepService {
	return &SweepService{db: db}
}

// Run executes one sweep: every approved user with a live streak is judged
// against the same instant, and everyone past their grace deadline is reset
// in a single batch write. Retrying a failed sweep is safe; judging an
// already-reset streak again is a no-op.
func (s *SweepService) Run(ctx context.Context) (*sweep.Report, error) {
	now := time.Now()

	rows, err := s.db.Query(ctx, `
	SELECT id, current_streak, longest_streak, last_streak_day_utc
	FROM users
	WHERE status = 'approved' AND current_streak > 0 AND last_streak_day_utc IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to load active streaks: %w", err)
	}
	defer rows.Close()

	checked := 0
	resetIDs := []uuid.UUID{}
	for rows.Next() {
		var (
			id  uuid.UUID
			rec streak.Record
		)
		if err := rows.Scan(&id, &rec.Current, &rec.Longest, &rec.LastDay); err != nil {
			return nil, fmt.Errorf("failed to scan streak row: %w", err)
		}
		checked++
		if streak.Expired(rec, now) {
			resetIDs = append(resetIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read streak rows: %w", err)
	}

	if len(resetIDs) > 0 {
		_, err := s.db.Exec(ctx, `
		UPDATE users
		SET current_streak = 0, updated_at = NOW()
		WHERE id = ANY($1)`, resetIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to reset expired streaks: %w", err)
		}
	}

	log.Printf("Sweep complete: checked %d streaks, reset %d", checked, len(resetIDs))

	return &sweep.Report{
		Success:  true,
		Checked:  checked,
		Resets:   len(resetIDs),
		ResetIDs: resetIDs,
	}, nil
}

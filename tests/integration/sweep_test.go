package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonZeroDayAPI/internal/adminlist"
	modelUser "nonZeroDayAPI/internal/types/user"
	"nonZeroDayAPI/services"
	"nonZeroDayAPI/tests/helpers"
)

// seedApprovedUser creates an approved user whose last counted day lies the
// given number of days in the past.
func seedApprovedUser(t *testing.T, svc *services.UserService, adminSvc *services.AdminService,
	ctx context.Context, clerkID, username string, streakLen, daysAgo int) uuid.UUID {
	t.Helper()

	u, err := svc.SyncFromIdentity(ctx, &modelUser.SyncRequest{ClerkID: clerkID, Username: username})
	require.NoError(t, err)
	_, err = adminSvc.ApproveUser(ctx, u.ID, streakLen)
	require.NoError(t, err)

	return u.ID
}

func TestSweepResetsExpiredStreaks(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool, adminlist.New(nil, nil))
	adminService := services.NewAdminService(pool)
	sweepService := services.NewSweepService(pool)

	ctx := context.Background()
	stamp := time.Now().Format("20060102150405")

	// Fresh streak: last counted day is today, must survive.
	freshID := seedApprovedUser(t, userService, adminService, ctx,
		"user_test_"+stamp+"_fresh", "sweepfresh_"+stamp, 4, 0)

	// Stale streak: push the last counted day far past the grace window.
	staleID := seedApprovedUser(t, userService, adminService, ctx,
		"user_test_"+stamp+"_stale", "sweepstale_"+stamp, 9, 0)
	_, err := pool.Exec(ctx,
		`UPDATE users SET last_streak_day_utc = (NOW() AT TIME ZONE 'utc')::date - 10 WHERE id = $1`, staleID)
	require.NoError(t, err)

	// Zero streak with a stale day: never a sweep candidate.
	zeroID := seedApprovedUser(t, userService, adminService, ctx,
		"user_test_"+stamp+"_zero", "sweepzero_"+stamp, 0, 0)
	_, err = pool.Exec(ctx,
		`UPDATE users SET last_streak_day_utc = (NOW() AT TIME ZONE 'utc')::date - 10 WHERE id = $1`, zeroID)
	require.NoError(t, err)

	report, err := sweepService.Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.GreaterOrEqual(t, report.Checked, 2)
	assert.Contains(t, report.ResetIDs, staleID)
	assert.NotContains(t, report.ResetIDs, freshID)
	assert.NotContains(t, report.ResetIDs, zeroID)

	// The stale streak is zeroed; longest and the historical marker stay.
	stale, err := userService.GetByID(ctx, staleID)
	require.NoError(t, err)
	assert.Equal(t, 0, stale.CurrentStreak)
	assert.Equal(t, 9, stale.LongestStreak)
	assert.NotNil(t, stale.LastStreakDayUTC)

	fresh, err := userService.GetByID(ctx, freshID)
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.CurrentStreak)

	// Running the sweep again is a no-op for the already-reset user.
	report2, err := sweepService.Run(ctx)
	require.NoError(t, err)
	assert.NotContains(t, report2.ResetIDs, staleID)
}

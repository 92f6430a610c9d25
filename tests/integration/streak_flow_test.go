package integration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonZeroDayAPI/handlers"
	"nonZeroDayAPI/internal/adminlist"
	"nonZeroDayAPI/internal/apperr"
	"nonZeroDayAPI/internal/types/admin"
	"nonZeroDayAPI/internal/types/update"
	modelUser "nonZeroDayAPI/internal/types/user"
	"nonZeroDayAPI/services"
	"nonZeroDayAPI/tests/helpers"
)

// TestSubmitApproveAdvanceFlow walks the whole lifecycle: identity sync,
// user approval with a seeded streak, daily submission, duplicate
// rejection, and the streak advancing on moderation approval.
func TestSubmitApproveAdvanceFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool, adminlist.New(nil, nil))
	updateService := services.NewUpdateService(pool)
	adminService := services.NewAdminService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	clerkID := "user_test_" + time.Now().Format("20060102150405")
	username := "builder_" + time.Now().Format("150405")
	ctx := context.Background()

	// Step 1: identity sync creates a pending account.
	payload := helpers.MockClerkWebhookPayload("user.created", clerkID, username)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	u, err := userService.GetByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, modelUser.StatusPending, u.Status)
	assert.Equal(t, 0, u.CurrentStreak)

	// Step 2: submissions queue even while the account is pending.
	up, err := updateService.Submit(ctx, clerkID, &update.SubmitRequest{PostURL: "https://x.com/post/1"})
	require.NoError(t, err)
	assert.Equal(t, update.ReviewPending, up.ReviewStatus)

	// A second submission for the same day is refused.
	_, err = updateService.Submit(ctx, clerkID, &update.SubmitRequest{})
	assert.ErrorIs(t, err, apperr.ErrDuplicateDay)

	// Step 3: admin approves the user with a seeded streak.
	approved, err := adminService.ApproveUser(ctx, u.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, modelUser.StatusApproved, approved.Status)
	assert.Equal(t, 10, approved.CurrentStreak)
	assert.Equal(t, 10, approved.LongestStreak)
	require.NotNil(t, approved.LastStreakDayUTC)

	// Step 4: approving the pending update advances the streak by one.
	reviewed, err := updateService.Approve(ctx, up.ID)
	require.NoError(t, err)
	assert.Equal(t, update.ReviewApproved, reviewed.ReviewStatus)
	require.NotNil(t, reviewed.ReviewedAt)

	u, err = userService.GetByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 11, u.CurrentStreak)
	assert.Equal(t, 11, u.LongestStreak)

	// Re-approving the same update is refused.
	_, err = updateService.Approve(ctx, up.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	// Step 5: the approved user shows up on the leaderboard.
	entries, err := userService.GetLeaderboard(ctx, 500)
	require.NoError(t, err)
	found := false
	for _, e := range entries {
		if e.Username == username {
			found = true
			assert.Equal(t, 11, e.CurrentStreak)
		}
	}
	assert.True(t, found, "approved user should appear on the leaderboard")
}

func TestAdminOverridesAndBulk(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool, adminlist.New(nil, nil))
	adminService := services.NewAdminService(pool)

	ctx := context.Background()
	stamp := time.Now().Format("20060102150405")

	var ids []uuid.UUID
	for _, suffix := range []string{"a", "b", "c"} {
		u, err := userService.SyncFromIdentity(ctx, &modelUser.SyncRequest{
			ClerkID:  "user_test_" + stamp + suffix,
			Username: "bulkuser_" + stamp + suffix,
		})
		require.NoError(t, err)
		_, err = adminService.ApproveUser(ctx, u.ID, 0)
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}

	// Decrement on a zero streak clamps instead of going negative.
	minusOne := -1
	adjusted, err := adminService.AdjustStreak(ctx, ids[0], &modelUser.StreakAdjustment{Delta: &minusOne})
	require.NoError(t, err)
	assert.Equal(t, 0, adjusted.CurrentStreak)

	// Absolute set.
	five := 5
	adjusted, err = adminService.AdjustStreak(ctx, ids[0], &modelUser.StreakAdjustment{Value: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, adjusted.CurrentStreak)
	assert.Equal(t, 5, adjusted.LongestStreak)

	// Delta and value together are rejected at the boundary.
	_, err = adminService.AdjustStreak(ctx, ids[0], &modelUser.StreakAdjustment{Delta: &minusOne, Value: &five})
	assert.True(t, apperr.IsValidation(err))

	// Bulk increment across all three.
	summary, err := adminService.Bulk(ctx, &admin.BulkRequest{
		IDs:    ids,
		Action: admin.BulkIncrement,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Requested)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)

	// Bulk against a missing user reports the failure without aborting the
	// rest of the batch.
	missing := ids[1]
	require.NoError(t, adminService.DeleteUser(ctx, missing))

	summary, err = adminService.Bulk(ctx, &admin.BulkRequest{
		IDs:    ids,
		Action: admin.BulkIncrement,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	for _, res := range summary.Results {
		if res.ID == missing {
			assert.False(t, res.OK)
			assert.NotEmpty(t, res.Error)
		} else {
			assert.True(t, res.OK)
		}
	}
}

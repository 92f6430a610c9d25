package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// SetupTestDB connects to the test database, skipping the test when no
// database is configured.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		_ = godotenv.Load()
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB removes rows created by the tests and closes the pool.
// Updates cascade away with their users.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE clerk_id LIKE 'user_test_%'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	pool.Close()
}

// GenerateMockClerkJWT builds a signed token with the given subject for
// exercising handlers that read the auth context.
func GenerateMockClerkJWT(clerkID string) (string, error) {
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// MockClerkWebhookPayload builds the webhook body Clerk would deliver for
// the given event and identity.
func MockClerkWebhookPayload(eventType, clerkID, username string) []byte {
	switch eventType {
	case "user.created", "user.updated":
		return []byte(fmt.Sprintf(`{
			"type": "%s",
			"object": "event",
			"data": {
				"id": "%s",
				"username": "%s",
				"first_name": "Test",
				"last_name": "Builder",
				"image_url": "https://example.com/avatar.jpg",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "%s@example.com"
				}]
			}
		}`, eventType, clerkID, username, username))

	case "user.deleted":
		return []byte(fmt.Sprintf(`{
			"type": "user.deleted",
			"object": "event",
			"data": {"id": "%s"}
		}`, clerkID))
	}

	return nil
}

package match_test

import (
	config "Palindra/config/postgres"
	"Palindra/models/postgres"
	"Palindra/services/match"
	"os"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	godotenv.Load("../../.env")
	os.Exit(m.Run())
}

// testService connects, migrates and wipes the tables, or skips when no
// database is configured. Redis is left nil: the service degrades to
// Postgres-only, which is exactly what these tests exercise.
func testService(t *testing.T) (*match.Service, *gorm.DB) {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set, skipping database test")
	}
	db, err := config.ConnectGORM()
	require.NoError(t, err)
	require.NoError(t, config.MigrateDatabase(db))

	for _, table := range []string{
		"rematch_requests", "challenges", "match_players", "matches",
		"friendships", "friendship_requests", "users", "game_profiles",
	} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	return match.NewService(db, nil), db
}

func createProfiles(t *testing.T, db *gorm.DB, usernames ...string) {
	for _, username := range usernames {
		require.NoError(t, db.Create(&postgres.GameProfile{Username: username}).Error)
	}
}

func befriend(t *testing.T, db *gorm.DB, a, b string) {
	require.NoError(t, db.Create(&postgres.Friendship{Username1: a, Username2: b}).Error)
}

// isRetryable matches the backend's serialization failure, which serializable
// transactions are expected to throw under contention.
func isRetryable(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "40001") ||
		strings.Contains(err.Error(), "could not serialize") ||
		strings.Contains(err.Error(), "deadlock"))
}

// claimWithRetry drives ClaimQuickMatch the way a client would: retrying
// until the claim commits.
func claimWithRetry(t *testing.T, svc *match.Service, username string) (*postgres.Match, bool) {
	for attempt := 0; attempt < 50; attempt++ {
		m, joined, err := svc.ClaimQuickMatch(username)
		if err == nil {
			return m, joined
		}
		if !isRetryable(err) {
			t.Fatalf("ClaimQuickMatch(%s): %v", username, err)
		}
	}
	t.Fatalf("ClaimQuickMatch(%s): retries exhausted", username)
	return nil, false
}

// finishedMatch fast-forwards two players through a full match so rematch
// tests start from a finished row.
func finishedMatch(t *testing.T, svc *match.Service, a, b string) *postgres.Match {
	created, joined := claimWithRetry(t, svc, a)
	require.False(t, joined)
	claimed, joined := claimWithRetry(t, svc, b)
	require.True(t, joined)
	require.Equal(t, created.ID, claimed.ID)

	_, err := svc.SubmitScore(created.ID, a, 40)
	require.NoError(t, err)
	m, err := svc.SubmitScore(created.ID, b, 25)
	require.NoError(t, err)
	require.Equal(t, postgres.MatchFinished, m.Status)
	return m
}

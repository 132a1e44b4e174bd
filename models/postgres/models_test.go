package postgres_test

import (
	config "Palindra/config/postgres"
	"Palindra/models/postgres"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	godotenv.Load("../../.env")
	os.Exit(m.Run())
}

// testDB connects and migrates, or skips when no database is configured.
func testDB(t *testing.T) *gorm.DB {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set, skipping database test")
	}
	db, err := config.ConnectGORM()
	require.NoError(t, err)
	require.NoError(t, config.MigrateDatabase(db))
	return db
}

// Helper function to clean up after tests
func cleanupDB(t *testing.T, db *gorm.DB) {
	// Delete records in reverse order of dependencies
	assert.NoError(t, db.Exec("DELETE FROM rematch_requests").Error)
	assert.NoError(t, db.Exec("DELETE FROM challenges").Error)
	assert.NoError(t, db.Exec("DELETE FROM match_players").Error)
	assert.NoError(t, db.Exec("DELETE FROM matches").Error)
	assert.NoError(t, db.Exec("DELETE FROM friendships").Error)
	assert.NoError(t, db.Exec("DELETE FROM friendship_requests").Error)
	assert.NoError(t, db.Exec("DELETE FROM users").Error)
	assert.NoError(t, db.Exec("DELETE FROM game_profiles").Error)
}

func TestUserAndGameProfile(t *testing.T) {
	db := testDB(t)
	defer cleanupDB(t, db)

	profile := postgres.GameProfile{
		Username:  "testuser",
		UserIcon:  1,
		IsInAGame: false,
	}

	user := postgres.User{
		Email:           "test@example.com",
		ProfileUsername: "testuser",
		PasswordHash:    "hashedpassword",
		FullName:        "Test User",
		MemberSince:     time.Now(),
	}

	assert.NoError(t, db.Create(&profile).Error)
	assert.NoError(t, db.Create(&user).Error)

	var foundUser postgres.User
	err := db.Preload("GameProfile").Where("email = ?", "test@example.com").First(&foundUser).Error
	assert.NoError(t, err)
	assert.Equal(t, "testuser", foundUser.ProfileUsername)
	assert.Equal(t, "testuser", foundUser.GameProfile.Username)
}

func TestMatchWithPlayers(t *testing.T) {
	db := testDB(t)
	defer cleanupDB(t, db)

	for _, username := range []string{"alice", "bob"} {
		assert.NoError(t, db.Create(&postgres.GameProfile{Username: username}).Error)
	}

	match := postgres.Match{
		Status: postgres.MatchWaiting,
		Mode:   postgres.ModeQuick,
		Seed:   "seed-1",
	}
	assert.NoError(t, db.Create(&match).Error)
	assert.NotEmpty(t, match.ID, "BeforeCreate hook should assign a uuid")
	assert.NotEmpty(t, match.Seed)

	for _, username := range []string{"alice", "bob"} {
		assert.NoError(t, db.Create(&postgres.MatchPlayer{
			MatchID:  match.ID,
			Username: username,
		}).Error)
	}

	var found postgres.Match
	err := db.Preload("Players").Where("id = ?", match.ID).First(&found).Error
	assert.NoError(t, err)
	assert.Len(t, found.Players, 2)
	for _, player := range found.Players {
		assert.Nil(t, player.SubmittedAt)
		assert.False(t, player.Winner)
	}
}

func TestInviteCodeUniqueAmongWaiting(t *testing.T) {
	db := testDB(t)
	defer cleanupDB(t, db)

	assert.NoError(t, db.Create(&postgres.GameProfile{Username: "alice"}).Error)

	code := "ABC234"
	first := postgres.Match{
		Status:     postgres.MatchWaiting,
		Mode:       postgres.ModeInvite,
		Seed:       "seed-1",
		InviteCode: &code,
	}
	assert.NoError(t, db.Create(&first).Error)

	// A second waiting match must not reuse the code
	dup := postgres.Match{
		Status:     postgres.MatchWaiting,
		Mode:       postgres.ModeInvite,
		Seed:       "seed-2",
		InviteCode: &code,
	}
	assert.Error(t, db.Create(&dup).Error)

	// Once the first match leaves waiting, the code is free again
	assert.NoError(t, db.Model(&first).Update("status", postgres.MatchCancelled).Error)
	again := postgres.Match{
		Status:     postgres.MatchWaiting,
		Mode:       postgres.ModeInvite,
		Seed:       "seed-3",
		InviteCode: &code,
	}
	assert.NoError(t, db.Create(&again).Error)
}

func TestFriendshipRejectsSameUser(t *testing.T) {
	db := testDB(t)
	defer cleanupDB(t, db)

	assert.NoError(t, db.Create(&postgres.GameProfile{Username: "alice"}).Error)

	err := db.Create(&postgres.Friendship{Username1: "alice", Username2: "alice"}).Error
	assert.Error(t, err)
}

func TestRematchRequestOncePerSide(t *testing.T) {
	db := testDB(t)
	defer cleanupDB(t, db)

	for _, username := range []string{"alice", "bob"} {
		assert.NoError(t, db.Create(&postgres.GameProfile{Username: username}).Error)
	}

	match := postgres.Match{Status: postgres.MatchFinished, Mode: postgres.ModeQuick, Seed: "seed-1"}
	assert.NoError(t, db.Create(&match).Error)

	first := postgres.RematchRequest{
		MatchID:      match.ID,
		FromUsername: "alice",
		ToUsername:   "bob",
	}
	assert.NoError(t, db.Create(&first).Error)
	assert.Equal(t, postgres.RequestPending, first.Status)

	dup := postgres.RematchRequest{
		MatchID:      match.ID,
		FromUsername: "alice",
		ToUsername:   "bob",
	}
	assert.Error(t, db.Create(&dup).Error, "one pending request per side and match")
}

func TestMatchStatusTransitions(t *testing.T) {
	assert.True(t, postgres.MatchWaiting.CanTransitionTo(postgres.MatchActive))
	assert.True(t, postgres.MatchWaiting.CanTransitionTo(postgres.MatchCancelled))
	assert.True(t, postgres.MatchActive.CanTransitionTo(postgres.MatchFinished))
	assert.True(t, postgres.MatchActive.CanTransitionTo(postgres.MatchCancelled))

	assert.False(t, postgres.MatchActive.CanTransitionTo(postgres.MatchWaiting))
	assert.False(t, postgres.MatchFinished.CanTransitionTo(postgres.MatchActive))
	assert.False(t, postgres.MatchFinished.CanTransitionTo(postgres.MatchCancelled))
	assert.False(t, postgres.MatchCancelled.CanTransitionTo(postgres.MatchFinished))
}

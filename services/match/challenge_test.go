package match_test

import (
	"testing"

	"Palindra/models/postgres"
	"Palindra/services/match"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeFriend(t *testing.T) {
	svc, db := testService(t)
	createProfiles(t, db, "alice", "bob")
	befriend(t, db, "alice", "bob")

	challenge, err := svc.ChallengeFriend("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, postgres.RequestPending, challenge.Status)
	assert.Equal(t, "alice", challenge.FromUsername)
	assert.Equal(t, "bob", challenge.ToUsername)

	// the backing match is waiting with the challenger in it
	var m postgres.Match
	require.NoError(t, db.Where("id = ?", challenge.MatchID).First(&m).Error)
	assert.Equal(t, postgres.MatchWaiting, m.Status)
	assert.Equal(t, postgres.ModeFriend, m.Mode)

	pending, err := svc.ListIncomingChallenges("bob")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, challenge.ID, pending[0].ID)
}

func TestChallengeRequiresFriendship(t *testing.T) {
	svc, db := testService(t)
	createProfiles(t, db, "alice", "bob")

	_, err := svc.ChallengeFriend("alice", "bob")
	assert.ErrorIs(t, err, match.ErrNotFriends)
}

func TestChallengeSelfRejected(t *testing.T) {
	svc, db := testService(t)
	createProfiles(t, db, "alice")

	_, err := svc.ChallengeFriend("alice", "alice")
	assert.ErrorIs(t, err, match.ErrSelfChallenge)
}

func TestAcceptChallenge(t *testing.T) {
	svc, db := testService(t)
	createProfiles(t, db, "alice", "bob")
	befriend(t, db, "alice", "bob")

	challenge, err := svc.ChallengeFriend("alice", "bob")
	require.NoError(t, err)

	m, err := svc.AcceptChallenge(challenge.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, challenge.MatchID, m.ID)
	assert.Equal(t, postgres.MatchActive, m.Status)
	assert.Len(t, m.Players, 2)

	var stored postgres.Challenge
	require.NoError(t, db.Where("id = ?", challenge.ID).First(&stored).Error)
	assert.Equal(t, postgres.RequestAccepted, stored.Status)

	// only the addressee can accept, and only once
	_, err = svc.AcceptChallenge(challenge.ID, "bob")
	assert.ErrorIs(t, err, match.ErrRequestAlreadyEnded)
}

func TestAcceptChallengeOnlyByAddressee(t *testing.T) {
	svc, db := testService(t)
	createProfiles(t, db, "alice", "bob")
	befriend(t, db, "alice", "bob")

	challenge, err := svc.ChallengeFriend("alice", "bob")
	require.NoError(t, err)

	_, err = svc.AcceptChallenge(challenge.ID, "alice")
	assert.ErrorIs(t, err, match.ErrNotAParticipant)
}

func TestDeclineChallenge(t *testing.T) {
	svc, db := testService(t)
	createProfiles(t, db, "alice", "bob")
	befriend(t, db, "alice", "bob")

	challenge, err := svc.ChallengeFriend("alice", "bob")
	require.NoError(t, err)

	require.NoError(t, svc.DeclineChallenge(challenge.ID, "bob"))

	var stored postgres.Challenge
	require.NoError(t, db.Where("id = ?", challenge.ID).First(&stored).Error)
	assert.Equal(t, postgres.RequestDeclined, stored.Status)

	pending, err := svc.ListIncomingChallenges("bob")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

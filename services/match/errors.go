package match

import "errors"

// Domain errors surfaced by the match service. Controllers translate them to
// HTTP codes; the strings are user-facing. Four kinds: validation (rejected
// before touching the database where possible), conflict (backend uniqueness
// violations), not-found / not-a-participant, and stale (acting on a row that
// already moved on). Reads of a missing match return nil instead of erroring.
var (
	// validation
	ErrSelfChallenge = errors.New("you cannot challenge yourself")
	ErrNotFriends    = errors.New("you can only challenge your friends")

	// conflict
	ErrInviteCodeExhausted = errors.New("could not generate a unique invite code")

	// not-found / not-a-participant
	ErrMatchNotFound   = errors.New("match not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrNotAParticipant = errors.New("you are not a player of this match")

	// stale / expired
	ErrInvalidInviteCode   = errors.New("Invalid or expired invite code")
	ErrMatchNotJoinable    = errors.New("match is no longer waiting for players")
	ErrMatchNotActive      = errors.New("match is not active")
	ErrMatchNotFinished    = errors.New("match is not finished yet")
	ErrAlreadySubmitted    = errors.New("score already submitted")
	ErrRequestAlreadyEnded = errors.New("request was already accepted or declined")
)

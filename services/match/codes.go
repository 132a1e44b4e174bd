package match

import (
	"math/rand"

	game_constants "Palindra/constants/game"
)

// Invite code alphabet. Uppercase plus digits, no 0/O or 1/I: the codes are
// read aloud and typed by hand.
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode returns a random 6-character join code. Uniqueness among
// waiting matches is enforced by the partial unique index on matches; callers
// retry on conflict up to InviteCodeMaxAttempts.
func GenerateInviteCode() string {
	b := make([]byte, game_constants.InviteCodeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

package match

import (
	"strings"
	"testing"

	game_constants "Palindra/constants/game"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInviteCodeLength(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateInviteCode()
		assert.Len(t, code, game_constants.InviteCodeLength)
	}
}

func TestGenerateInviteCodeCharset(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateInviteCode()
		for _, ch := range code {
			assert.Contains(t, codeCharset, string(ch))
		}
	}
}

func TestGenerateInviteCodeAvoidsAmbiguousCharacters(t *testing.T) {
	// 0/O and 1/I read the same over voice chat, keep them out
	for _, banned := range []string{"0", "O", "1", "I"} {
		assert.False(t, strings.Contains(codeCharset, banned), "charset must not contain %q", banned)
	}
}

func TestGenerateInviteCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateInviteCode()] = true
	}
	assert.Greater(t, len(seen), 1, "50 generated codes should not all collide")
}

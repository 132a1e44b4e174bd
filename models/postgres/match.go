package postgres

import (
	"time"

	game_constants "Palindra/constants/game"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchStatus only moves forward: waiting -> active -> finished, or
// {waiting, active} -> cancelled. Never backward.
type MatchStatus string

const (
	MatchWaiting   MatchStatus = "waiting"
	MatchActive    MatchStatus = "active"
	MatchFinished  MatchStatus = "finished"
	MatchCancelled MatchStatus = "cancelled"
)

// MatchMode tags how a match was created.
type MatchMode string

const (
	ModeQuick   MatchMode = "quick"
	ModeInvite  MatchMode = "invite"
	ModeFriend  MatchMode = "friend"
	ModeRematch MatchMode = "rematch"
)

/*
 * 'Match' is one shared puzzle match between up to two players. The board is
 * never stored: both clients rebuild it deterministically from Seed.
 */
type Match struct {
	ID     string      `gorm:"primaryKey;size:50;not null"`
	Status MatchStatus `gorm:"size:20;not null;default:'waiting';index:idx_matches_status"`
	Mode   MatchMode   `gorm:"size:20;not null"`
	Seed   string      `gorm:"size:100;not null"`

	// Human-shareable join token. Unique only among waiting matches, so codes
	// can be recycled once a match has started.
	InviteCode *string `gorm:"size:6;uniqueIndex:idx_matches_invite_code,where:status = 'waiting'"`

	TimeLimitSeconds int `gorm:"not null;default:180"`

	CreatedAt  time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	StartedAt  *time.Time ``
	FinishedAt *time.Time ``

	// Relationship with the players of the match (1 while waiting, 2 afterwards)
	Players []MatchPlayer `gorm:"foreignKey:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// BeforeCreate fills the identity and the deterministic seed. Invite codes are
// NOT generated here: their uniqueness needs the bounded retry loop in the
// match service, not a hook.
func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Seed == "" {
		m.Seed = uuid.NewString()
	}
	if m.TimeLimitSeconds == 0 {
		m.TimeLimitSeconds = game_constants.DefaultTimeLimitSeconds
	}
	return nil
}

// CanTransitionTo enforces the forward-only status lifecycle.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	switch s {
	case MatchWaiting:
		return next == MatchActive || next == MatchCancelled
	case MatchActive:
		return next == MatchFinished || next == MatchCancelled
	default:
		return false
	}
}

package postgres

import (
	"time"
)

/*
 * 'MatchPlayer' represents the per-player state of a match. It contains
 * references to Match and GameProfile
 */
type MatchPlayer struct {
	// NOTE: composite primary key definition
	MatchID  string `gorm:"primaryKey;size:50;not null"`
	Username string `gorm:"primaryKey;size:50;not null;index"`

	// Live score, overwritten while playing purely for the opponent's display.
	// Becomes final once SubmittedAt is set.
	Score *int `gorm:""`

	// Set at most once; a second submit for the same player is a no-op.
	SubmittedAt *time.Time `gorm:""`

	Winner bool `gorm:"default:false"`

	// Relationship with the match and the user's game profile
	Match       Match       `gorm:"foreignKey:MatchID"`
	GameProfile GameProfile `gorm:"foreignKey:Username"`
}

// Submitted reports whether this player already has a final score.
func (p *MatchPlayer) Submitted() bool {
	return p.SubmittedAt != nil
}

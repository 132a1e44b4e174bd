package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'RematchRequest' is one half of the rematch handshake over a finished
 * match. When both players request near-simultaneously, the second caller
 * discovers the first one's pending row and collapses the pair into a single
 * new match, recorded in NewMatchID.
 */
type RematchRequest struct {
	ID           string        `gorm:"primaryKey;size:50;not null"`
	MatchID      string        `gorm:"size:50;not null;uniqueIndex:idx_rematch_once_per_side,priority:1"`
	FromUsername string        `gorm:"size:50;not null;uniqueIndex:idx_rematch_once_per_side,priority:2"`
	ToUsername   string        `gorm:"size:50;not null;index"`
	Status       RequestStatus `gorm:"size:20;not null;default:'pending'"`

	// ID of the match created by acceptance, nil while pending or declined.
	NewMatchID *string `gorm:"size:50"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Match       Match       `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
	FromProfile GameProfile `gorm:"foreignKey:FromUsername;constraint:OnDelete:CASCADE"`
	ToProfile   GameProfile `gorm:"foreignKey:ToUsername;constraint:OnDelete:CASCADE"`
}

func (r *RematchRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is shared by Challenge and RematchRequest rows.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

/*
 * 'Challenge' represents a direct game invitation between two friends. It
 * links to the waiting Match the challenger already created; accepting adds
 * the recipient as second player and activates that match.
 */
type Challenge struct {
	ID           string        `gorm:"primaryKey;size:50;not null"`
	FromUsername string        `gorm:"size:50;not null;index"`
	ToUsername   string        `gorm:"size:50;not null;index:idx_challenges_recipient"`
	MatchID      string        `gorm:"size:50;not null"`
	Status       RequestStatus `gorm:"size:20;not null;default:'pending'"`
	CreatedAt    time.Time     `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Match       Match       `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
	FromProfile GameProfile `gorm:"foreignKey:FromUsername;constraint:OnDelete:CASCADE"`
	ToProfile   GameProfile `gorm:"foreignKey:ToUsername;constraint:OnDelete:CASCADE"`
}

func (ch *Challenge) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	return nil
}

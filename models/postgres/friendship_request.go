package postgres

import (
	"time"
)

type FriendshipRequest struct {
	Sender    string    `gorm:"primaryKey;size:50;not null"`
	Recipient string    `gorm:"primaryKey;size:50;not null"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships with the game profiles
	SenderProfile    GameProfile `gorm:"foreignKey:Sender"`
	RecipientProfile GameProfile `gorm:"foreignKey:Recipient"`
}

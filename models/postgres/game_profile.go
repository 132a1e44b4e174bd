package postgres

import (
	"gorm.io/datatypes"
)

/*
 * 'GameProfile' defines the structure for a user's game profile. It is
 * referenced in User, Friendship, FriendshipRequest, Match, MatchPlayer,
 * Challenge and RematchRequest
 */
type GameProfile struct {
	Username  string         `gorm:"primaryKey;size:50;not null"`
	UserStats datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	UserIcon  int            `gorm:"default:0"`
	IsInAGame bool           `gorm:"default:false"`

	Friendships1    []Friendship        `gorm:"foreignKey:Username1"`
	Friendships2    []Friendship        `gorm:"foreignKey:Username2"`
	FriendRequests1 []FriendshipRequest `gorm:"foreignKey:Sender"`
	FriendRequests2 []FriendshipRequest `gorm:"foreignKey:Recipient"`
	MatchPlayers    []MatchPlayer       `gorm:"foreignKey:Username"`
	Challenges      []Challenge         `gorm:"foreignKey:ToUsername"`
}

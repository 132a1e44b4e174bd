package utils

import (
	"Palindra/models/postgres"

	"gorm.io/gorm"
)

// CheckMatchExists reports whether a match row exists.
func CheckMatchExists(db *gorm.DB, matchID string) (bool, error) {
	var count int64
	err := db.Model(&postgres.Match{}).
		Where("id = ?", matchID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func IsPlayerInMatch(db *gorm.DB, matchID string, username string) (bool, error) {
	var count int64
	err := db.Model(&postgres.MatchPlayer{}).
		Where("match_id = ? AND username = ?", matchID, username).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Returns the icon of the user
func UserIcon(db *gorm.DB, username string) int {
	var icon int
	err := db.Model(&postgres.GameProfile{}).
		Select("user_icon").
		Where("username = ?", username).
		Find(&icon).Error
	if err != nil {
		return 1
	}

	return icon
}

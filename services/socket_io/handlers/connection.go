package handlers

import (
	"log"
	"time"

	models "Palindra/models/postgres"
	redis_models "Palindra/models/redis"
	"Palindra/services/redis"
	socketio_types "Palindra/services/socket_io/types"
	"Palindra/services/sync"

	"gorm.io/gorm"
)

// HandleConnected marks the user online in Redis presence. Presence is
// advisory and failures are only logged.
func HandleConnected(username string, redisClient *redis.RedisClient) {
	if redisClient == nil {
		return
	}
	err := redisClient.SavePlayerPresence(&redis_models.PlayerPresence{
		Username: username,
		Status:   redis_models.StatusOnline,
		LastPing: time.Now().Unix(),
	})
	if err != nil {
		log.Printf("[CONNECT-ERROR] Error saving presence for %s: %v", username, err)
	}
}

// HandleDisconnecting flushes the user's in-progress scores to PostgreSQL,
// clears their presence and drops the connection from the map. The match
// itself is left untouched: a disconnected player may reconnect and keep
// playing until the time limit runs out.
func HandleDisconnecting(username string, sio *socketio_types.SocketServer,
	db *gorm.DB, redisClient *redis.RedisClient, syncManager *sync.SyncManager) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] User disconnecting: %s", username)

		var activePlayers []models.MatchPlayer
		err := db.Joins("JOIN matches ON matches.id = match_players.match_id").
			Where("match_players.username = ? AND matches.status = ?", username, models.MatchActive).
			Find(&activePlayers).Error
		if err != nil {
			log.Printf("[DISCONNECT-ERROR] Error finding active matches of %s: %v", username, err)
		} else {
			for _, player := range activePlayers {
				if err := syncManager.SyncPlayerLiveScore(player.MatchID, username); err != nil {
					log.Printf("[DISCONNECT-ERROR] Error flushing live score of %s in match %s: %v",
						username, player.MatchID, err)
				}
			}
		}

		if redisClient != nil {
			if err := redisClient.DeletePlayerPresence(username); err != nil {
				log.Printf("[DISCONNECT-ERROR] Error deleting presence of %s: %v", username, err)
			}
		}

		sio.RemoveConnection(username)
		log.Printf("[DISCONNECT-DONE] User disconnected: %s", username)
	}
}

package handlers

import (
	"log"

	"Palindra/services/match"
	socketio_utils "Palindra/services/socket_io/utils"
	"Palindra/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// HandleWatchMatch joins the client to the match room and replies with the
// current snapshot, so a reconnecting client is up to date before the first
// push arrives.
func HandleWatchMatch(client *socket.Socket, db *gorm.DB, username string,
	matchService *match.Service) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "match_id is required"})
			return
		}
		matchID, ok := args[0].(string)
		if !ok || matchID == "" {
			client.Emit("error", gin.H{"error": "match_id is required"})
			return
		}

		if err := socketio_utils.ValidateMatchAndUser(client, db, username, matchID); err != nil {
			return
		}

		client.Join(socket.Room(sync.MatchRoom(matchID)))
		log.Printf("[WATCH] User %s watching match %s", username, matchID)

		snapshot, err := matchService.GetSnapshot(matchID)
		if err != nil {
			log.Printf("[WATCH-ERROR] Error fetching snapshot of match %s: %v", matchID, err)
			client.Emit("error", gin.H{"error": "Error fetching match state"})
			return
		}
		client.Emit("match_updated", snapshot)
	}
}

// HandleUnwatchMatch leaves the match room. No validation: leaving a room
// the client never joined is a no-op.
func HandleUnwatchMatch(client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "match_id is required"})
			return
		}
		matchID, ok := args[0].(string)
		if !ok || matchID == "" {
			client.Emit("error", gin.H{"error": "match_id is required"})
			return
		}

		client.Leave(socket.Room(sync.MatchRoom(matchID)))
		log.Printf("[WATCH] User %s stopped watching match %s", username, matchID)
	}
}

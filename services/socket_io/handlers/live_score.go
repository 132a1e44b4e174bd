package handlers

import (
	"errors"
	"log"

	"Palindra/services/match"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleLiveScore records an in-progress score for the sender. Socket.io
// delivers JSON numbers as float64, so the score argument is coerced from
// that.
func HandleLiveScore(client *socket.Socket, username string,
	matchService *match.Service) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 2 {
			client.Emit("error", gin.H{"error": "match_id and score are required"})
			return
		}
		matchID, ok := args[0].(string)
		if !ok || matchID == "" {
			client.Emit("error", gin.H{"error": "match_id is required"})
			return
		}
		rawScore, ok := args[1].(float64)
		if !ok || rawScore < 0 {
			client.Emit("error", gin.H{"error": "score must be a non-negative number"})
			return
		}

		err := matchService.UpdateLiveScore(matchID, username, int(rawScore))
		switch {
		case err == nil:
			return
		case errors.Is(err, match.ErrMatchNotFound):
			client.Emit("error", gin.H{"error": "Match not found"})
		case errors.Is(err, match.ErrNotAParticipant):
			client.Emit("error", gin.H{"error": "You are not a player of this match"})
		case errors.Is(err, match.ErrMatchNotActive):
			client.Emit("error", gin.H{"error": "Match is not active"})
		case errors.Is(err, match.ErrAlreadySubmitted):
			client.Emit("error", gin.H{"error": "Score already submitted"})
		default:
			log.Printf("[LIVE-SCORE-ERROR] match %s user %s: %v", matchID, username, err)
			client.Emit("error", gin.H{"error": "Error updating live score"})
		}
	}
}

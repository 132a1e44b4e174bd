package socketio_utils

import (
	"Palindra/middleware"
	models "Palindra/models/postgres"
	"Palindra/utils"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// VerifyUserConnection authenticates a socket.io client from the JWT it sent
// in the handshake auth data, and resolves the username behind the token's
// email claim.
func VerifyUserConnection(client *socket.Socket, db *gorm.DB) (success bool, username, email string) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		log.Println("[SOCKET-AUTH] no auth data provided in handshake")
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return false, "", ""
	}

	if _, exists := authData["authorization"].(string); !exists {
		log.Println("[SOCKET-AUTH] no authorization token provided in handshake")
		client.Emit("error", gin.H{"error": "Authentication failed: missing authorization token"})
		return false, "", ""
	}

	email, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		log.Println("[SOCKET-AUTH] error decoding JWT:", err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'Authorization' field and with the 'Bearer ' prefix.",
		})
		return false, "", ""
	}

	var user models.User
	result := db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		log.Println("[SOCKET-AUTH] error fetching user from database:", result.Error)
		client.Emit("error", gin.H{"error": "Authentication failed: could not find user"})
		return false, "", email
	}

	username = user.ProfileUsername
	return true, username, email
}

// ValidateMatchAndUser checks that the match exists and that the user plays
// in it, emitting socket errors on the way out so callers only handle the
// happy path.
func ValidateMatchAndUser(client *socket.Socket, db *gorm.DB, username string, matchID string) error {
	exists, err := utils.CheckMatchExists(db, matchID)
	if err != nil {
		log.Printf("[SOCKET-ERROR] Database error validating match %s: %v", matchID, err)
		client.Emit("error", gin.H{"error": "Database error"})
		return err
	}
	if !exists {
		client.Emit("error", gin.H{"error": "Match not found"})
		return fmt.Errorf("match %s not found", matchID)
	}

	isPlayer, err := utils.IsPlayerInMatch(db, matchID, username)
	if err != nil {
		log.Printf("[SOCKET-ERROR] Database error checking player %s in match %s: %v", username, matchID, err)
		client.Emit("error", gin.H{"error": "Database error"})
		return err
	}
	if !isPlayer {
		client.Emit("error", gin.H{"error": "You are not a player of this match"})
		return fmt.Errorf("user %s not in match %s", username, matchID)
	}

	return nil
}

package controllers

import (
	"Palindra/services/redis"
	"Palindra/services/sync"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MatchInfoController serves read-only match summaries straight over
// database/sql, bypassing the ORM.
type MatchInfoController struct {
	DB          *sql.DB
	RedisClient *redis.RedisClient
	SyncManager *sync.SyncManager
}

// GetMatchInfo gets summary information about the match with the provided id
func (mc *MatchInfoController) GetMatchInfo(c *gin.Context) {
	matchID := c.Param("match_id")

	// Query basic match information in the database
	var match_psql struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		Mode             string `json:"mode"`
		Seed             string `json:"seed"`
		TimeLimitSeconds int    `json:"time_limit_seconds"`
	}

	err := mc.DB.QueryRow(`
		SELECT id, status, mode, seed, time_limit_seconds
		FROM matches
		WHERE id = $1
	`, matchID).Scan(
		&match_psql.ID, &match_psql.Status, &match_psql.Mode,
		&match_psql.Seed, &match_psql.TimeLimitSeconds,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying database: " + err.Error()})
		}
		return
	}

	// Query how many players joined
	var playerCount int
	err = mc.DB.QueryRow(`
		SELECT COUNT(*)
		FROM match_players
		WHERE match_id = $1
	`, matchID).Scan(&playerCount)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting players: " + err.Error()})
		return
	}

	// Winner, if the match already finished
	var winner sql.NullString
	err = mc.DB.QueryRow(`
		SELECT username
		FROM match_players
		WHERE match_id = $1 AND winner = true
	`, matchID).Scan(&winner)

	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting winner: " + err.Error()})
		return
	}

	response := gin.H{
		"id":                 match_psql.ID,
		"status":             match_psql.Status,
		"mode":               match_psql.Mode,
		"seed":               match_psql.Seed,
		"time_limit_seconds": match_psql.TimeLimitSeconds,
		"player_count":       playerCount,
	}
	if winner.Valid {
		response["winner"] = winner.String
	}

	c.JSON(http.StatusOK, response)
}

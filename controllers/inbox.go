package controllers

import (
	"net/http"

	"Palindra/services/match"
	"Palindra/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Pending challenges
// @Description Lists the pending challenges addressed to the caller
// @Tags inbox
// @Produce json
// @Success 200 {array} object{id=string,from=string,match_id=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/challenges [get]
// @Security ApiKeyAuth
func GetPendingChallenges(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		challenges, err := matchService.ListIncomingChallenges(username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching challenges"})
			return
		}

		simplified := make([]gin.H, len(challenges))
		for i, challenge := range challenges {
			simplified[i] = gin.H{
				"id":         challenge.ID,
				"from":       challenge.FromUsername,
				"from_icon":  utils.UserIcon(db, challenge.FromUsername),
				"match_id":   challenge.MatchID,
				"created_at": challenge.CreatedAt,
			}
		}
		c.JSON(http.StatusOK, simplified)
	}
}

// @Summary Pending rematch requests
// @Description Lists the pending rematch requests addressed to the caller
// @Tags inbox
// @Produce json
// @Success 200 {array} object{id=string,from=string,match_id=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/rematchRequests [get]
// @Security ApiKeyAuth
func GetPendingRematchRequests(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		requests, err := matchService.ListIncomingRematchRequests(username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching rematch requests"})
			return
		}

		simplified := make([]gin.H, len(requests))
		for i, request := range requests {
			simplified[i] = gin.H{
				"id":         request.ID,
				"from":       request.FromUsername,
				"from_icon":  utils.UserIcon(db, request.FromUsername),
				"match_id":   request.MatchID,
				"created_at": request.CreatedAt,
			}
		}
		c.JSON(http.StatusOK, simplified)
	}
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Palindra/services/match"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// matchError translates a match service error to its HTTP response.
func matchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, match.ErrSelfChallenge),
		errors.Is(err, match.ErrNotFriends):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, match.ErrMatchNotFound),
		errors.Is(err, match.ErrRequestNotFound),
		errors.Is(err, match.ErrNotAParticipant):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, match.ErrInvalidInviteCode),
		errors.Is(err, match.ErrMatchNotJoinable),
		errors.Is(err, match.ErrMatchNotActive),
		errors.Is(err, match.ErrMatchNotFinished),
		errors.Is(err, match.ErrAlreadySubmitted),
		errors.Is(err, match.ErrRequestAlreadyEnded),
		errors.Is(err, match.ErrInviteCodeExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// @Summary Find or create a quick match
// @Description Joins the oldest waiting quick match, or creates a new waiting one if none exists
// @Tags match
// @Produce json
// @Success 200 {object} object{match=object,joined=boolean}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/quickMatch [post]
// @Security ApiKeyAuth
func QuickMatch(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		m, joined, err := matchService.ClaimQuickMatch(username)
		if err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m, "joined": joined})
	}
}

// @Summary Create an invite match
// @Description Creates a waiting match with a shareable 6-character invite code
// @Tags match
// @Produce json
// @Success 200 {object} object{match=object,invite_code=string}
// @Failure 401 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/inviteMatch [post]
// @Security ApiKeyAuth
func CreateInviteMatch(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		m, err := matchService.CreateInviteMatch(username)
		if err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m, "invite_code": m.InviteCode})
	}
}

// @Summary Join a match by invite code
// @Description Joins the waiting match behind the given invite code. Joining a match the caller already plays in is a no-op
// @Tags match
// @Produce json
// @Param code path string true "Invite code"
// @Success 200 {object} object{match=object}
// @Failure 401 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/joinMatch/{code} [post]
// @Security ApiKeyAuth
func JoinByInviteCode(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		m, err := matchService.JoinByInviteCode(username, c.Param("code"))
		if err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m})
	}
}

// @Summary Leave a waiting match
// @Description Abandons a match that has not started yet; the match is cancelled
// @Tags match
// @Produce json
// @Param match_id path string true "Match id"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/leaveMatch/{match_id} [post]
// @Security ApiKeyAuth
func LeaveMatch(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		if err := matchService.LeaveMatch(username, c.Param("match_id")); err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Left match successfully"})
	}
}

// @Summary Current state of a match
// @Description Returns the match with live scores merged in. A missing match yields a null match, not an error
// @Tags match
// @Produce json
// @Param match_id path string true "Match id"
// @Success 200 {object} object{match=object,live_scores=object}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/match/{match_id} [get]
// @Security ApiKeyAuth
func GetMatch(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionUsername(c, db); !ok {
			return
		}

		snapshot, err := matchService.GetSnapshot(c.Param("match_id"))
		if err != nil {
			matchError(c, err)
			return
		}
		if snapshot == nil {
			// deleted or never-existed matches read as null so pollers
			// can treat them uniformly
			c.JSON(http.StatusOK, gin.H{"match": nil})
			return
		}

		c.JSON(http.StatusOK, snapshot)
	}
}

// @Summary Report an in-progress score
// @Description Updates the caller's live score while they are still solving
// @Tags match
// @Accept x-www-form-urlencoded
// @Produce json
// @Param match_id path string true "Match id"
// @Param score formData integer true "Current score"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/match/{match_id}/liveScore [post]
// @Security ApiKeyAuth
func UpdateLiveScore(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		score, err := strconv.Atoi(c.PostForm("score"))
		if err != nil || score < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be a non-negative integer"})
			return
		}

		if err := matchService.UpdateLiveScore(c.Param("match_id"), username, score); err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Live score updated"})
	}
}

// @Summary Submit a final score
// @Description Records the caller's final score. The first submission wins; repeats are ignored. When both players have submitted the match finishes
// @Tags match
// @Accept x-www-form-urlencoded
// @Produce json
// @Param match_id path string true "Match id"
// @Param score formData integer true "Final score"
// @Success 200 {object} object{match=object}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/match/{match_id}/submit [post]
// @Security ApiKeyAuth
func SubmitScore(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		score, err := strconv.Atoi(c.PostForm("score"))
		if err != nil || score < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be a non-negative integer"})
			return
		}

		m, err := matchService.SubmitScore(c.Param("match_id"), username, score)
		if err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m})
	}
}

// @Summary Challenge a friend
// @Description Creates a waiting match and a pending challenge addressed to a friend
// @Tags match
// @Accept x-www-form-urlencoded
// @Produce json
// @Param friendUsername formData string true "Friend to challenge"
// @Success 200 {object} object{challenge=object}
// @Failure 400 {object} object{error=string}
// @Router /auth/challenge [post]
// @Security ApiKeyAuth
func ChallengeFriend(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		friendUsername := c.PostForm("friendUsername")
		if friendUsername == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Friend username is required"})
			return
		}

		challenge, err := matchService.ChallengeFriend(username, friendUsername)
		if err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"challenge": challenge})
	}
}

// @Summary Accept a challenge
// @Description Joins the challenger's waiting match and activates it
// @Tags match
// @Produce json
// @Param challenge_id path string true "Challenge id"
// @Success 200 {object} object{match=object}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/challenge/{challenge_id}/accept [post]
// @Security ApiKeyAuth
func AcceptChallenge(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		m, err := matchService.AcceptChallenge(c.Param("challenge_id"), username)
		if err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m})
	}
}

// @Summary Decline a challenge
// @Description Declines a pending challenge; the challenger is notified
// @Tags match
// @Produce json
// @Param challenge_id path string true "Challenge id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/challenge/{challenge_id}/decline [post]
// @Security ApiKeyAuth
func DeclineChallenge(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		if err := matchService.DeclineChallenge(c.Param("challenge_id"), username); err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Challenge declined"})
	}
}

// @Summary Request a rematch
// @Description Asks the opponent of a finished match to play again. If they already asked, both requests collapse into one new match
// @Tags match
// @Produce json
// @Param match_id path string true "Finished match id"
// @Success 200 {object} object{status=string,request=object,new_match=object}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/match/{match_id}/rematch [post]
// @Security ApiKeyAuth
func RequestRematch(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		outcome, err := matchService.RequestRematch(c.Param("match_id"), username)
		if err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, outcome)
	}
}

// @Summary Accept a rematch request
// @Description Creates the new match and records it on the request
// @Tags match
// @Produce json
// @Param request_id path string true "Rematch request id"
// @Success 200 {object} object{match=object}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/rematch/{request_id}/accept [post]
// @Security ApiKeyAuth
func AcceptRematch(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		m, err := matchService.AcceptRematch(c.Param("request_id"), username)
		if err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": m})
	}
}

// @Summary Decline a rematch request
// @Description Declines a pending rematch request; the requester is notified
// @Tags match
// @Produce json
// @Param request_id path string true "Rematch request id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/rematch/{request_id}/decline [post]
// @Security ApiKeyAuth
func DeclineRematch(db *gorm.DB, matchService *match.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		if err := matchService.DeclineRematch(c.Param("request_id"), username); err != nil {
			matchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Rematch declined"})
	}
}

package controllers

import (
	"Palindra/middleware"
	"Palindra/models/postgres"
	models "Palindra/models/postgres"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// sessionUsername resolves the caller's username from the session email.
func sessionUsername(c *gin.Context, db *gorm.DB) (string, bool) {
	email, err := middleware.SessionEmail(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authenticated session"})
		return "", false
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid email"})
		return "", false
	}
	return user.ProfileUsername, true
}

// @Summary Get a list of a user friends
// @Description Returns a list of the user's friends
// @Tags friends
// @Produce json
// @Success 200 {array} object{username=string,icon=integer}
// @Failure 500 {object} object{error=string}
// @Router /auth/friends [get]
// @Security ApiKeyAuth
func ListFriends(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		var friendships []postgres.Friendship
		result := db.Where("username1 = ? OR username2 = ?", username, username).Find(&friendships)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching friendships"})
			return
		}

		friendsUsernames := []string{}
		for _, friendship := range friendships {
			if friendship.Username1 == username {
				friendsUsernames = append(friendsUsernames, friendship.Username2)
			} else {
				friendsUsernames = append(friendsUsernames, friendship.Username1)
			}
		}

		// Fetch friend profiles
		var friends []postgres.GameProfile
		if len(friendsUsernames) > 0 {
			result = db.Where("username IN (?)", friendsUsernames).Find(&friends)
			if result.Error != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching friends data"})
				return
			}
		}

		simplifiedFriends := make([]gin.H, len(friends))
		for i, friend := range friends {
			simplifiedFriends[i] = gin.H{
				"username": friend.Username,
				"icon":     friend.UserIcon,
			}
		}

		c.JSON(http.StatusOK, simplifiedFriends)
	}
}

// @Summary Send a friend request
// @Description Sends a friend request from the caller to another user
// @Tags friends
// @Accept x-www-form-urlencoded
// @Produce json
// @Param friendUsername formData string true "Username of the recipient"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Security ApiKeyAuth
// @Router /auth/sendFriendRequest [post]
func SendFriendRequest(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		senderUsername, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		recipientUsername := c.PostForm("friendUsername")
		if recipientUsername == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient username is required"})
			return
		}
		if senderUsername == recipientUsername {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot send a friend request to yourself"})
			return
		}

		var recipient postgres.GameProfile
		if err := db.Where("username = ?", recipientUsername).First(&recipient).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
			return
		}

		areFriends, err := postgres.AreFriends(db, senderUsername, recipientUsername)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking friendship"})
			return
		}
		if areFriends {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You are already friends"})
			return
		}

		var existing postgres.FriendshipRequest
		result := db.Where(
			"(sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?)",
			senderUsername, recipientUsername, recipientUsername, senderUsername,
		).First(&existing)
		if result.RowsAffected > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Friend request already exists"})
			return
		}

		newRequest := postgres.FriendshipRequest{
			Sender:    senderUsername,
			Recipient: recipientUsername,
		}
		if err := db.Create(&newRequest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending friend request"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Friend request sent successfully"})
	}
}

// @Summary Accept a friend request
// @Description Accepts a pending friend request and creates the friendship
// @Tags friends
// @Accept x-www-form-urlencoded
// @Produce json
// @Param friendUsername formData string true "Username of the request sender"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Security ApiKeyAuth
// @Router /auth/acceptFriendRequest [post]
func AcceptFriendRequest(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		senderUsername := c.PostForm("friendUsername")
		if senderUsername == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Sender username is required"})
			return
		}

		var request postgres.FriendshipRequest
		result := db.Where("sender = ? AND recipient = ?", senderUsername, username).First(&request)
		if result.RowsAffected == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Friend request does not exist"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&postgres.Friendship{
				Username1: senderUsername,
				Username2: username,
			}).Error; err != nil {
				return err
			}
			return tx.Delete(&request).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error accepting friend request"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Friend added successfully"})
	}
}

// @Summary Remove a friend
// @Description Removes a friend from the user's friend list
// @Tags friends
// @Accept x-www-form-urlencoded
// @Produce json
// @Param friendUsername formData string true "Username of the friend to be removed"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Security ApiKeyAuth
// @Router /auth/deleteFriend [delete]
func DeleteFriend(db *gorm.DB) gin.HandlerFunc {
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

		var friendship postgres.Friendship
		result := db.Where(
			"(username1 = ? AND username2 = ?) OR (username1 = ? AND username2 = ?)",
			username, friendUsername, friendUsername, username,
		).First(&friendship)
		if result.RowsAffected == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Friendship does not exist"})
			return
		}

		result = db.Delete(&friendship)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting friend"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Friend removed successfully"})
	}
}

// @Summary Pending friend requests
// @Description Lists friend requests sent to the caller
// @Tags friends
// @Produce json
// @Success 200 {array} object{sender=string,icon=integer}
// @Failure 500 {object} object{error=string}
// @Security ApiKeyAuth
// @Router /auth/friendship_requests [get]
func GetAllFriendshipRequests(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		var requests []postgres.FriendshipRequest
		if err := db.Preload("SenderProfile").Where("recipient = ?", username).Find(&requests).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching friend requests"})
			return
		}

		simplified := make([]gin.H, len(requests))
		for i, request := range requests {
			simplified[i] = gin.H{
				"sender":     request.Sender,
				"icon":       request.SenderProfile.UserIcon,
				"created_at": request.CreatedAt,
			}
		}
		c.JSON(http.StatusOK, simplified)
	}
}

// @Summary Decline a friend request
// @Description Deletes a pending friend request addressed to the caller
// @Tags friends
// @Accept x-www-form-urlencoded
// @Produce json
// @Param friendUsername formData string true "Username of the request sender"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Security ApiKeyAuth
// @Router /auth/delete_friendship_request [delete]
func DeleteFriendshipRequest(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := sessionUsername(c, db)
		if !ok {
			return
		}

		senderUsername := c.PostForm("friendUsername")
		if senderUsername == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Sender username is required"})
			return
		}

		result := db.Where("sender = ? AND recipient = ?", senderUsername, username).
			Delete(&postgres.FriendshipRequest{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting friend request"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Friend request does not exist"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Friend request deleted successfully"})
	}
}

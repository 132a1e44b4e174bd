package controllers

import (
	"Palindra/middleware"
	models "Palindra/models/postgres"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Logs a user in
// @Description Validates credentials, starts a session and returns the JWT used by the socket.io handshake
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "User email"
// @Param password formData string true "User password"
// @Success 200 {object} object{token=string,username=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email := c.PostForm("email")
		password := c.PostForm("password")

		// Minimum input sanitizing
		if strings.Trim(email, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		session.Set("Email", user.Email)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save session"})
			return
		}

		token, err := middleware.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "username": user.ProfileUsername})
	}
}

// @Summary Logs a user out
// @Description Deletes the session associated with the Email key
// @Tags users
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/logout [delete]
// @Security ApiKeyAuth
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("Email")
	// There is no session for the user, won't delete nothing
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete("Email")
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Creates a new account
// @Description Registers a user with email, username and password
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "User email"
// @Param username formData string true "Public username"
// @Param password formData string true "User password"
// @Param fullname formData string false "Full name"
// @Success 200 {object} object{message=string,username=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.PostForm("email"))
		username := strings.TrimSpace(c.PostForm("username"))
		password := c.PostForm("password")
		fullname := strings.TrimSpace(c.PostForm("fullname"))

		if email == "" || username == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email, username and password are required"})
			return
		}

		var existing models.User
		if db.Where("email = ? OR profile_username = ?", email, username).First(&existing).RowsAffected > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Email or username already in use"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
			return
		}

		newUser := models.User{
			Email:           email,
			ProfileUsername: username,
			PasswordHash:    string(hash),
			FullName:        fullname,
			GameProfile: models.GameProfile{
				Username: username,
				UserIcon: 1,
			},
		}

		if err := db.Create(&newUser).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User created successfully", "username": username})
	}
}

// @Summary Public info of a user
// @Description Returns the public profile of the given username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{username=string,icon=integer}
// @Failure 404 {object} object{error=string}
// @Router /users/{username} [get]
func GetUserPublicInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")

		var profile models.GameProfile
		result := db.Where("username = ?", username).First(&profile)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"username": profile.Username,
			"icon":     profile.UserIcon,
		})
	}
}

// @Summary Lists all users
// @Description Returns the public profile of every registered user
// @Tags users
// @Produce json
// @Success 200 {array} object{username=string,icon=integer}
// @Failure 500 {object} object{error=string}
// @Router /allusers [get]
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profiles []models.GameProfile
		if err := db.Find(&profiles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
			return
		}

		users := make([]gin.H, len(profiles))
		for i, profile := range profiles {
			users[i] = gin.H{
				"username": profile.Username,
				"icon":     profile.UserIcon,
			}
		}
		c.JSON(http.StatusOK, users)
	}
}

// @Summary Private info of the caller
// @Description Returns the account details of the logged-in user
// @Tags users
// @Produce json
// @Success 200 {object} object{email=string,username=string,fullname=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func GetUserPrivateInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.SessionEmail(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authenticated session"})
			return
		}

		var user models.User
		if err := db.Preload("GameProfile").Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"email":        user.Email,
			"username":     user.ProfileUsername,
			"fullname":     user.FullName,
			"icon":         user.GameProfile.UserIcon,
			"member_since": user.MemberSince,
		})
	}
}

// @Summary Updates account info
// @Description Updates the caller's full name, icon or password
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param fullname formData string false "New full name"
// @Param icon formData integer false "New icon"
// @Param password formData string false "New password"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/update [patch]
// @Security ApiKeyAuth
func UpdateUserInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.SessionEmail(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authenticated session"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid email"})
			return
		}

		if fullname := strings.TrimSpace(c.PostForm("fullname")); fullname != "" {
			user.FullName = fullname
		}
		if password := c.PostForm("password"); password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
				return
			}
			user.PasswordHash = string(hash)
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
			return
		}

		if icon := c.PostForm("icon"); icon != "" {
			if err := db.Model(&models.GameProfile{}).
				Where("username = ?", user.ProfileUsername).
				Update("user_icon", icon).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating icon"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
	}
}

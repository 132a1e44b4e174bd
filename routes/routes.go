package routes

import (
	"Palindra/controllers"
	"Palindra/middleware"
	"Palindra/services/match"
	"Palindra/services/redis"
	"Palindra/services/sync"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	matchService *match.Service, syncManager *sync.SyncManager) {

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Error reading sql.DB from GORM: %v", err)
	}

	// Raw-SQL controller for the public match summary
	matchInfoController := &controllers.MatchInfoController{
		DB:          sqlDB,
		RedisClient: redisClient,
		SyncManager: syncManager,
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/allusers", controllers.GetAllUsers(db))

	api.GET("/users/:username", controllers.GetUserPublicInfo(db))

	api.GET("/matchInfo/:match_id", matchInfoController.GetMatchInfo)

	api.POST("/login", controllers.Login(db))

	api.POST("/signup", controllers.SignUp(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.GetUserPrivateInfo(db))

		authentication.PATCH("/update", controllers.UpdateUserInfo(db))

		// Friends
		authentication.GET("/friends", controllers.ListFriends(db))

		authentication.POST("/sendFriendRequest", controllers.SendFriendRequest(db))

		authentication.POST("/acceptFriendRequest", controllers.AcceptFriendRequest(db))

		authentication.GET("/friendship_requests", controllers.GetAllFriendshipRequests(db))

		authentication.DELETE("/delete_friendship_request", controllers.DeleteFriendshipRequest(db))

		authentication.DELETE("/deleteFriend", controllers.DeleteFriend(db))

		// Matchmaking
		authentication.POST("/quickMatch", controllers.QuickMatch(db, matchService))

		authentication.POST("/inviteMatch", controllers.CreateInviteMatch(db, matchService))

		authentication.POST("/joinMatch/:code", controllers.JoinByInviteCode(db, matchService))

		authentication.POST("/leaveMatch/:match_id", controllers.LeaveMatch(db, matchService))

		// Match play
		authentication.GET("/match/:match_id", controllers.GetMatch(db, matchService))

		authentication.POST("/match/:match_id/liveScore", controllers.UpdateLiveScore(db, matchService))

		authentication.POST("/match/:match_id/submit", controllers.SubmitScore(db, matchService))

		authentication.POST("/match/:match_id/rematch", controllers.RequestRematch(db, matchService))

		// Challenges
		authentication.POST("/challenge", controllers.ChallengeFriend(db, matchService))

		authentication.POST("/challenge/:challenge_id/accept", controllers.AcceptChallenge(db, matchService))

		authentication.POST("/challenge/:challenge_id/decline", controllers.DeclineChallenge(db, matchService))

		// Rematches
		authentication.POST("/rematch/:request_id/accept", controllers.AcceptRematch(db, matchService))

		authentication.POST("/rematch/:request_id/decline", controllers.DeclineRematch(db, matchService))

		// Inbox
		authentication.GET("/challenges", controllers.GetPendingChallenges(db, matchService))

		authentication.GET("/rematchRequests", controllers.GetPendingRematchRequests(db, matchService))
	}
}

package main

import (
	"Palindra/config"
	pgconfig "Palindra/config/postgres"
	_ "Palindra/config/swagger"
	"Palindra/middleware"
	"Palindra/routes"
	"Palindra/services/match"
	"Palindra/services/redis"
	"Palindra/services/socket_io"
	socketio_types "Palindra/services/socket_io/types"
	"Palindra/services/sync"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Palindra API
// @version 1.0
// @description Gin-Gonic server for the "Palindra" game API
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := pgconfig.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}

	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := pgconfig.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	log.Println("Connection to Redis successful")
	defer redis.CloseRedis(redisClient)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	// Services
	matchService := match.NewService(gormDB, redisClient)
	syncManager := sync.NewSyncManager(redisClient, sqlDB)

	// Socket server, wired to the bridge so match mutations reach rooms
	sio := &socket_io.MySocketServer{}
	matchService.SetNotifier(sync.NewBridge(matchService, redisClient, (*socketio_types.SocketServer)(sio)))

	routes.SetupRoutes(r, gormDB, redisClient, matchService, syncManager)

	sio.Start(r, gormDB, redisClient, matchService, syncManager)

	// Configure port
	port := os.Getenv("PORT")
	if port == "" && os.Getenv("USE_HTTPS") == "true" {
		port = "443"
	} else if port == "" {
		port = "8080"
	}

	if os.Getenv("USE_HTTPS") == "true" {
		// SSL certification configuration for HTTPS
		certFile := os.Getenv("SSL_CERT_FILE")
		keyFile := os.Getenv("SSL_KEY_FILE")

		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}
}

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/luckyfive/lottery-backend/config"
	"github.com/luckyfive/lottery-backend/routes"
	"github.com/luckyfive/lottery-backend/services"
	"github.com/luckyfive/lottery-backend/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// initEnv loads .env file and validates required vars
func initEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, reading environment variables")
	}

	if os.Getenv("DATABASE_URL") == "" {
		logger.Log.Fatal("DATABASE_URL is required in .env or environment")
	}
}

// setupRouter initializes Gin routes and middleware
func setupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket status stream
	r.GET("/ws/lottery", services.HandleWebSocket)

	return r
}

func main() {
	// Load env variables
	initEnv()

	// Connect to database
	config.SetupDatabase()

	// Open the first round if none is active
	services.InitLotteryService()

	// Setup Gin router
	router := setupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	logger.Infof("Lottery backend starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

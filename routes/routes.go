package routes

import (
	"github.com/luckyfive/lottery-backend/controllers"
	"github.com/luckyfive/lottery-backend/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ----------------------
	// Auth routes
	// ----------------------
	api.GET("/auth/status", controllers.AuthStatus)    // Session status
	api.POST("/auth/register", controllers.Register)   // Register user
	api.POST("/auth/login", controllers.Login)         // Log in with phone + password
	api.POST("/auth/logout", controllers.Logout)       // Clear session

	// ----------------------
	// Lottery routes
	// ----------------------
	api.GET("/lottery/status", controllers.LotteryStatus)                          // Current round state
	api.POST("/lottery/buy", middleware.Authenticated, controllers.BuyTickets)     // Buy tickets

	// ----------------------
	// Wallet routes
	// ----------------------
	api.POST("/wallet/deposit", middleware.Authenticated, controllers.Deposit)        // Add funds
	api.POST("/wallet/withdraw", middleware.Authenticated, controllers.Withdraw)      // Withdraw funds
	api.GET("/wallet/transactions", middleware.Authenticated, controllers.Transactions) // Ledger history
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/luckyfive/lottery-backend/middleware"
	"github.com/luckyfive/lottery-backend/services"
	"github.com/luckyfive/lottery-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

// LotteryStatus returns the public state of the current round. User ticket
// numbers are included when the request carries a session.
func LotteryStatus(c *gin.Context) {
	userID, _ := middleware.SessionUserID(c)

	status, err := services.Lottery.Status(userID)
	if err != nil {
		logger.Errorf("Failed to load lottery status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, status)
}

type buyRequest struct {
	Quantity *int `json:"quantity"`
}

// BuyTickets handles a ticket purchase for the authenticated user.
func BuyTickets(c *gin.Context) {
	userID := c.GetUint(middleware.UserIDKey)

	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	result, err := services.Lottery.BuyTickets(userID, quantity)
	if err != nil {
		status, message := purchaseError(err)
		c.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	services.BroadcastStatus()

	if result.GameCompleted {
		message := "No winner this round"
		if result.Draw != nil && result.Draw.WinnerID != nil {
			message = fmt.Sprintf("Lottery complete! Winner: %s (Ticket #%d)", result.Draw.WinnerName, result.Draw.WinningNumber)
		}
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        message,
			"ticket_numbers": result.TicketNumbers,
			"game_completed": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Tickets purchased successfully",
		"ticket_numbers": result.TicketNumbers,
	})
}

func purchaseError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusBadRequest, "Invalid quantity (1-3 only)"
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusBadRequest, "Insufficient funds"
	case errors.Is(err, services.ErrTicketLimit):
		return http.StatusBadRequest, "Maximum 3 tickets per user"
	case errors.Is(err, services.ErrNotEnoughTickets):
		return http.StatusBadRequest, "Not enough tickets remaining"
	default:
		logger.Errorf("Purchase failed: %v", err)
		return http.StatusInternalServerError, "Database error"
	}
}

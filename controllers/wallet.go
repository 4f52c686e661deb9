package controllers

import (
	"errors"
	"net/http"

	"github.com/luckyfive/lottery-backend/config"
	"github.com/luckyfive/lottery-backend/middleware"
	"github.com/luckyfive/lottery-backend/models"
	"github.com/luckyfive/lottery-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errInsufficientBalance = errors.New("insufficient balance")

type walletRequest struct {
	Amount int64 `json:"amount"`
}

// Deposit credits the user's balance and records the transaction.
func Deposit(c *gin.Context) {
	userID := c.GetUint(middleware.UserIDKey)

	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid amount"})
		return
	}

	var user models.User
	var record models.Transaction
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		user.Balance += req.Amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		record = models.Transaction{
			UserID:       userID,
			Type:         models.DepositTransaction,
			Amount:       req.Amount,
			Status:       models.TransactionCompleted,
			BalanceAfter: user.Balance,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		logger.Errorf("Deposit failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to deposit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"balance":        user.Balance,
		"transaction_id": record.ID,
	})
}

// Withdraw debits the user's balance and records the transaction.
func Withdraw(c *gin.Context) {
	userID := c.GetUint(middleware.UserIDKey)

	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid amount"})
		return
	}

	var user models.User
	var record models.Transaction
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		if user.Balance < req.Amount {
			return errInsufficientBalance
		}

		user.Balance -= req.Amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		record = models.Transaction{
			UserID:       userID,
			Type:         models.WithdrawTransaction,
			Amount:       -req.Amount,
			Status:       models.TransactionCompleted,
			BalanceAfter: user.Balance,
		}
		return tx.Create(&record).Error
	})
	if errors.Is(err, errInsufficientBalance) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Insufficient funds"})
		return
	}
	if err != nil {
		logger.Errorf("Withdrawal failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to withdraw"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"balance":        user.Balance,
		"transaction_id": record.ID,
	})
}

// Transactions lists the user's ledger entries, newest first.
func Transactions(c *gin.Context) {
	userID := c.GetUint(middleware.UserIDKey)

	var transactions []models.Transaction
	if err := config.DB.Where("user_id = ?", userID).Order("id DESC").Find(&transactions).Error; err != nil {
		logger.Errorf("Failed to list transactions for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

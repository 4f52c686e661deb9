package models

import (
	"time"

	"gorm.io/datatypes"
)

type TransactionType string

const (
	DepositTransaction  TransactionType = "deposit"
	WithdrawTransaction TransactionType = "withdraw"
	PurchaseTransaction TransactionType = "purchase"
	PrizeTransaction    TransactionType = "prize"
	HouseCutTransaction TransactionType = "house_cut"
)

const (
	TransactionCompleted = "completed"
)

// Transaction is the ledger: every balance movement writes one row.
// House-cut rows have UserID 0 since the retained share belongs to no user.
type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"index" json:"user_id"`
	Type         TransactionType `gorm:"size:20;not null" json:"type"`
	Amount       int64           `gorm:"not null" json:"amount"`
	Status       string          `gorm:"size:20;not null;default:completed" json:"status"`
	BalanceAfter int64           `json:"balance_after"`
	Meta         datatypes.JSON  `json:"meta,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

package models

import "time"

// Lottery is one round of the game. Exactly one row is active at a time;
// the active row accumulates tickets and prize pool until all 50 numbers
// sell, then it closes and a fresh active row replaces it.
type Lottery struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	IsActive      bool       `gorm:"index;not null;default:true" json:"is_active"`
	WinningNumber *int       `json:"winning_number"`
	WinnerID      *uint      `json:"winner_id"`
	PrizePool     int64      `gorm:"not null;default:0" json:"prize_pool"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

package models

import "time"

type Ticket struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"not null;uniqueIndex:idx_lottery_number" json:"number"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	LotteryID uint      `gorm:"not null;uniqueIndex:idx_lottery_number" json:"lottery_id"`
	CreatedAt time.Time `json:"purchased_at"`
}

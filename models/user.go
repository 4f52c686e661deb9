package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Phone        string    `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	PasswordHash string    `gorm:"size:120;not null" json:"-"`
	Balance      int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

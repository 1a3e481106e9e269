package model

import "time"

// User represents a registered player account.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"user_id"`
	LoginID      string    `gorm:"uniqueIndex;size:32;not null" json:"login_id"`
	PasswordHash string    `gorm:"size:72;not null" json:"-"`
	Name         string    `gorm:"size:32;not null" json:"name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

package model

import "time"

// Character represents a player's in-game character.
//
// Health and Power are the stored derived stats: base stat plus the sum of
// the modifiers of every equipped item. They are updated in the same
// transaction as every equipment or catalog change, never recomputed lazily.
type Character struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"character_id"`
	UserID     int64     `gorm:"index:idx_user_character;not null" json:"user_id"`
	Name       string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	BaseHealth int       `gorm:"not null" json:"base_health"`
	BasePower  int       `gorm:"not null" json:"base_power"`
	Health     int       `gorm:"not null" json:"health"`
	Power      int       `gorm:"not null" json:"power"`
	Wallet     int64     `gorm:"not null;default:0" json:"wallet"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

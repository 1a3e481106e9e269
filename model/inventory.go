package model

import "time"

// Inventory is a quantity-tracked item stack held by a character.
// At most one row exists per (character, item code) pair; a stack whose
// quantity reaches zero is deleted, never kept at zero.
type Inventory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharacterID int64     `gorm:"uniqueIndex:idx_char_item;not null" json:"character_id"`
	ItemCode    int       `gorm:"uniqueIndex:idx_char_item;not null" json:"item_code"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

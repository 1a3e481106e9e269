package model

import "time"

// Equipment marks a single item instance as worn by a character.
// At most one row exists per (character, item code) pair; equipping moves
// exactly one unit out of the matching inventory stack.
type Equipment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharacterID int64     `gorm:"uniqueIndex:idx_char_equip;not null" json:"character_id"`
	ItemCode    int       `gorm:"uniqueIndex:idx_char_equip;not null" json:"item_code"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

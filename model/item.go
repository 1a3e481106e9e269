package model

import "time"

// Item is a catalog definition. Code is the stable external identifier;
// inventory and equipment rows reference it without a foreign key.
type Item struct {
	Code       int       `gorm:"primaryKey;autoIncrement" json:"item_code"`
	Name       string    `gorm:"uniqueIndex;size:64;not null" json:"item_name"`
	Price      int64     `gorm:"not null" json:"item_price"`
	StatHealth int       `gorm:"not null;default:0" json:"stat_health"`
	StatPower  int       `gorm:"not null;default:0" json:"stat_power"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

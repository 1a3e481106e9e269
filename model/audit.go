package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one economy mutation for after-the-fact inspection.
type AuditLog struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID     string         `gorm:"size:36;index" json:"trace_id"`
	UserID      *int64         `json:"user_id"`
	CharacterID *int64         `gorm:"index" json:"character_id"`
	Action      string         `gorm:"size:32;not null" json:"action"`
	Request     datatypes.JSON `json:"request"`
	Response    datatypes.JSON `json:"response"`
	Error       string         `gorm:"size:255" json:"error"`
	IP          string         `gorm:"size:45" json:"ip"`
	DurationMs  int            `json:"duration_ms"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

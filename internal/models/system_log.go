package models

import (
	"time"
)

// SystemLog is an audit record of write operations against the API.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"`
	Module    string    `gorm:"size:50;index" json:"module"`
	Action    string    `gorm:"size:50" json:"action"`
	Message   string    `gorm:"size:500" json:"message"`
	ClientID  string    `gorm:"size:255;index" json:"client_id"`
	IP        string    `gorm:"size:45" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Extra     string    `gorm:"type:text" json:"extra"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (SystemLog) TableName() string { return "system_logs" }

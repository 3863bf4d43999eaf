package models

import (
	"time"
)

// Client is a tenant account. Password login is a stub concern kept minimal:
// a bcrypt hash checked at /auth/login, nothing more.
type Client struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ClientID  string     `gorm:"uniqueIndex;size:255;not null" json:"client_id"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

package models

import (
	"time"
)

// Report is one client's stored weekly report. Rows are create-only: there
// is no update or delete path, and the composite unique index guarantees at
// most one report per (client_id, week_number).
type Report struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ClientID   string    `gorm:"size:255;not null;uniqueIndex:idx_client_week" json:"client_id"`
	WeekNumber int       `gorm:"not null;uniqueIndex:idx_client_week" json:"week_number"`
	Text       string    `gorm:"column:report_text;type:text;not null" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Report) TableName() string { return "reports" }

package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/horseradish/comparebot/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateWeek is returned by Put when a report already exists for
	// the same (client, week) pair.
	ErrDuplicateWeek = errors.New("report already exists for this week")

	// ErrReportNotFound is returned by Get when no report matches the key.
	ErrReportNotFound = errors.New("report not found")
)

// ReportStore is the durable keyed storage for reports. Reports are
// create-only; duplicate detection rides on the (client_id, week_number)
// unique index so concurrent uploads for the same key cannot both succeed.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// ReportMeta is the listing view of a report: everything but the text.
type ReportMeta struct {
	ID         string    `json:"id"`
	WeekNumber int       `json:"week_number"`
	CreatedAt  time.Time `json:"created_at"`
	TextLength int       `json:"text_length"`
}

// Put creates a report for (clientID, weekNumber). The insert itself is the
// duplicate check: a unique-index violation maps to ErrDuplicateWeek.
func (s *ReportStore) Put(clientID string, weekNumber int, text string) (*models.Report, error) {
	report := &models.Report{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		WeekNumber: weekNumber,
		Text:       text,
	}

	if err := s.db.Create(report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateWeek
		}
		return nil, err
	}

	return report, nil
}

// Get looks up the report for an exact (clientID, weekNumber) key.
func (s *ReportStore) Get(clientID string, weekNumber int) (*models.Report, error) {
	var report models.Report
	err := s.db.Where("client_id = ? AND week_number = ?", clientID, weekNumber).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// List returns all report metadata for a client ordered by week descending.
// The raw text never leaves the store through this path; only its length is
// computed, in SQL.
func (s *ReportStore) List(clientID string) ([]ReportMeta, error) {
	metas := []ReportMeta{}
	err := s.db.Model(&models.Report{}).
		Select("id, week_number, created_at, length(report_text) AS text_length").
		Where("client_id = ?", clientID).
		Order("week_number DESC").
		Scan(&metas).Error
	if err != nil {
		return nil, err
	}
	return metas, nil
}

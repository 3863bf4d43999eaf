package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/horseradish/comparebot/pkg/logger"
	"github.com/horseradish/comparebot/pkg/response"
)

// ReportService orchestrates the report lifecycle: authorize, validate,
// extract, store, compare. It holds no per-request state; the store is the
// only mutation boundary.
type ReportService struct {
	store      *ReportStore
	extractor  TextExtractor
	comparator *Comparator
}

func NewReportService(store *ReportStore, extractor TextExtractor, comparator *Comparator) *ReportService {
	return &ReportService{
		store:      store,
		extractor:  extractor,
		comparator: comparator,
	}
}

type UploadRequest struct {
	ClientID   string
	WeekNumber int
	Filename   string
	Data       []byte
}

type UploadResult struct {
	ReportID   string `json:"report_id"`
	WeekNumber int    `json:"week_number"`
	TextLength int    `json:"text_length"`
}

// ComparisonResult is the transient per-request comparison of week N against
// week N-1. CreatedAt is copied from the week-N report, documenting the
// provenance of the compared data, not when the comparison ran.
type ComparisonResult struct {
	Summary            string    `json:"summary"`
	Highlights         []string  `json:"highlights"`
	WeekNumber         int       `json:"week_number"`
	PreviousWeekNumber int       `json:"previous_week_number"`
	CreatedAt          time.Time `json:"created_at"`
}

// Upload authorizes the caller, extracts text from the document and stores
// it under (clientID, weekNumber). The asserted identity is checked before
// anything else runs; no side effects happen on a mismatch.
func (s *ReportService) Upload(ctx context.Context, assertedClientID string, req *UploadRequest) (*UploadResult, error) {
	if req.ClientID != assertedClientID {
		return nil, response.NewForbidden("client id mismatch")
	}
	if req.WeekNumber < 1 {
		return nil, response.NewBadRequest("week_number must be a positive integer")
	}
	if !strings.HasSuffix(strings.ToLower(req.Filename), ".pdf") {
		return nil, response.NewBadRequest("only PDF files are allowed")
	}

	text, err := s.extractor.Extract(req.Data)
	if err != nil {
		logger.Error().Err(err).Str("client_id", req.ClientID).Int("week", req.WeekNumber).Msg("text extraction failed")
		return nil, response.NewServerError("failed to extract text from document")
	}
	if strings.TrimSpace(text) == "" {
		return nil, response.NewBadRequest("no text could be extracted from the PDF")
	}

	report, err := s.store.Put(req.ClientID, req.WeekNumber, text)
	if err != nil {
		if errors.Is(err, ErrDuplicateWeek) {
			return nil, response.NewConflict(fmt.Sprintf("report for week %d already exists", req.WeekNumber))
		}
		logger.Error().Err(err).Str("client_id", req.ClientID).Int("week", req.WeekNumber).Msg("report insert failed")
		return nil, response.NewServerError("failed to store report")
	}

	logger.Info().
		Str("client_id", req.ClientID).
		Int("week", req.WeekNumber).
		Int("text_length", len(text)).
		Msg("report stored")

	return &UploadResult{
		ReportID:   report.ID,
		WeekNumber: report.WeekNumber,
		TextLength: len(text),
	}, nil
}

// Compare resolves the adjacent-week pair (weekNumber, weekNumber-1) and
// delegates to the comparator. Both reports must exist; there is no fallback
// to non-adjacent pairs.
func (s *ReportService) Compare(ctx context.Context, assertedClientID, clientID string, weekNumber int) (*ComparisonResult, error) {
	if clientID != assertedClientID {
		return nil, response.NewForbidden("client id mismatch")
	}
	if weekNumber < 1 {
		return nil, response.NewBadRequest("week_number must be a positive integer")
	}

	current, err := s.store.Get(clientID, weekNumber)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("no report found for week %d", weekNumber))
		}
		logger.Error().Err(err).Str("client_id", clientID).Int("week", weekNumber).Msg("report lookup failed")
		return nil, response.NewServerError("failed to load report")
	}

	previous, err := s.store.Get(clientID, weekNumber-1)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("no report found for week %d", weekNumber-1))
		}
		logger.Error().Err(err).Str("client_id", clientID).Int("week", weekNumber-1).Msg("report lookup failed")
		return nil, response.NewServerError("failed to load report")
	}

	comparison, err := s.comparator.Compare(ctx, previous.Text, current.Text, weekNumber)
	if err != nil {
		logger.Error().Err(err).Str("client_id", clientID).Int("week", weekNumber).Msg("comparison generation failed")
		return nil, response.NewServerError(fmt.Sprintf("failed to generate comparison for week %d", weekNumber))
	}

	return &ComparisonResult{
		Summary:            comparison.Summary,
		Highlights:         comparison.Highlights,
		WeekNumber:         weekNumber,
		PreviousWeekNumber: weekNumber - 1,
		CreatedAt:          current.CreatedAt,
	}, nil
}

// List returns report metadata for a client, newest week first.
func (s *ReportService) List(assertedClientID, clientID string) ([]ReportMeta, error) {
	if clientID != assertedClientID {
		return nil, response.NewForbidden("client id mismatch")
	}

	metas, err := s.store.List(clientID)
	if err != nil {
		logger.Error().Err(err).Str("client_id", clientID).Msg("report listing failed")
		return nil, response.NewServerError("failed to list reports")
	}
	return metas, nil
}

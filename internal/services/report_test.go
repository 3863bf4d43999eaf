package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/horseradish/comparebot/pkg/response"
)

// fakeExtractor returns canned text and counts calls so tests can assert
// nothing was extracted after an authorization failure.
type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func newTestReportService(t *testing.T, extractor *fakeExtractor, gen *fakeGenerator) (*ReportService, *ReportStore) {
	t.Helper()
	store := NewReportStore(newTestDB(t))
	return NewReportService(store, extractor, NewComparator(gen)), store
}

func appErrorStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *response.AppError, got %T: %v", err, err)
	}
	return appErr.HTTPStatus
}

func uploadReq(week int) *UploadRequest {
	return &UploadRequest{
		ClientID:   "acme",
		WeekNumber: week,
		Filename:   "week.pdf",
		Data:       []byte("%PDF-1.4 fake"),
	}
}

func TestUpload_Success(t *testing.T) {
	extractor := &fakeExtractor{text: "Revenue up 5%"}
	svc, _ := newTestReportService(t, extractor, &fakeGenerator{})

	result, err := svc.Upload(context.Background(), "acme", uploadReq(1))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if result.ReportID == "" {
		t.Error("Upload() should return a report id")
	}
	if result.WeekNumber != 1 {
		t.Errorf("WeekNumber = %d, expected 1", result.WeekNumber)
	}
	if result.TextLength != 13 {
		t.Errorf("TextLength = %d, expected 13", result.TextLength)
	}
}

func TestUpload_ClientIDMismatch(t *testing.T) {
	extractor := &fakeExtractor{text: "some text"}
	svc, store := newTestReportService(t, extractor, &fakeGenerator{})

	_, err := svc.Upload(context.Background(), "globex", uploadReq(1))
	if status := appErrorStatus(t, err); status != http.StatusForbidden {
		t.Errorf("status = %d, expected 403", status)
	}

	// Authorization failure must leave no side effects.
	if extractor.calls != 0 {
		t.Errorf("extractor was called %d times on identity mismatch", extractor.calls)
	}
	if _, err := store.Get("acme", 1); !errors.Is(err, ErrReportNotFound) {
		t.Error("no report should be stored on identity mismatch")
	}
}

func TestUpload_InvalidWeekNumber(t *testing.T) {
	svc, _ := newTestReportService(t, &fakeExtractor{text: "text"}, &fakeGenerator{})

	for _, week := range []int{0, -1} {
		_, err := svc.Upload(context.Background(), "acme", uploadReq(week))
		if status := appErrorStatus(t, err); status != http.StatusBadRequest {
			t.Errorf("week %d: status = %d, expected 400", week, status)
		}
	}
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	extractor := &fakeExtractor{text: "text"}
	svc, _ := newTestReportService(t, extractor, &fakeGenerator{})

	req := uploadReq(1)
	req.Filename = "report.docx"

	_, err := svc.Upload(context.Background(), "acme", req)
	if status := appErrorStatus(t, err); status != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", status)
	}
	if extractor.calls != 0 {
		t.Error("extractor should not run for a rejected document type")
	}
}

func TestUpload_AcceptsUppercaseExtension(t *testing.T) {
	svc, _ := newTestReportService(t, &fakeExtractor{text: "text"}, &fakeGenerator{})

	req := uploadReq(1)
	req.Filename = "REPORT.PDF"

	if _, err := svc.Upload(context.Background(), "acme", req); err != nil {
		t.Errorf("Upload() error = %v", err)
	}
}

func TestUpload_EmptyExtraction(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		svc, store := newTestReportService(t, &fakeExtractor{text: text}, &fakeGenerator{})

		_, err := svc.Upload(context.Background(), "acme", uploadReq(1))
		if status := appErrorStatus(t, err); status != http.StatusBadRequest {
			t.Errorf("text %q: status = %d, expected 400", text, status)
		}
		if _, err := store.Get("acme", 1); !errors.Is(err, ErrReportNotFound) {
			t.Error("empty extraction must not be persisted")
		}
	}
}

func TestUpload_ExtractionFailure(t *testing.T) {
	svc, _ := newTestReportService(t, &fakeExtractor{err: errors.New("corrupt xref table")}, &fakeGenerator{})

	_, err := svc.Upload(context.Background(), "acme", uploadReq(1))
	if status := appErrorStatus(t, err); status != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", status)
	}
}

func TestUpload_DuplicateWeek(t *testing.T) {
	svc, _ := newTestReportService(t, &fakeExtractor{text: "Revenue up 5%"}, &fakeGenerator{})

	if _, err := svc.Upload(context.Background(), "acme", uploadReq(1)); err != nil {
		t.Fatalf("first Upload() error = %v", err)
	}

	_, err := svc.Upload(context.Background(), "acme", uploadReq(1))
	if status := appErrorStatus(t, err); status != http.StatusConflict {
		t.Errorf("status = %d, expected 409", status)
	}
}

func TestCompare_MissingCurrentWeek(t *testing.T) {
	gen := &fakeGenerator{reply: validReply}
	svc, _ := newTestReportService(t, &fakeExtractor{text: "text"}, gen)

	_, err := svc.Compare(context.Background(), "acme", "acme", 3)
	if status := appErrorStatus(t, err); status != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", status)
	}
	if gen.calls != 0 {
		t.Error("generator must not run when the current week is missing")
	}
}

func TestCompare_MissingPreviousWeek(t *testing.T) {
	gen := &fakeGenerator{reply: validReply}
	extractor := &fakeExtractor{text: "Revenue up 10%"}
	svc, _ := newTestReportService(t, extractor, gen)

	req := uploadReq(2)
	if _, err := svc.Upload(context.Background(), "acme", req); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	_, err := svc.Compare(context.Background(), "acme", "acme", 2)
	if status := appErrorStatus(t, err); status != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", status)
	}
	if gen.calls != 0 {
		t.Error("generator must not run when the previous week is missing")
	}
}

func TestCompare_ClientIDMismatch(t *testing.T) {
	gen := &fakeGenerator{reply: validReply}
	svc, _ := newTestReportService(t, &fakeExtractor{text: "text"}, gen)

	_, err := svc.Compare(context.Background(), "globex", "acme", 2)
	if status := appErrorStatus(t, err); status != http.StatusForbidden {
		t.Errorf("status = %d, expected 403", status)
	}
	if gen.calls != 0 {
		t.Error("generator must not run on identity mismatch")
	}
}

func TestCompare_GeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	extractor := &fakeExtractor{text: "week text"}
	svc, _ := newTestReportService(t, extractor, gen)

	for week := 1; week <= 2; week++ {
		if _, err := svc.Upload(context.Background(), "acme", uploadReq(week)); err != nil {
			t.Fatalf("Upload(week %d) error = %v", week, err)
		}
	}

	_, err := svc.Compare(context.Background(), "acme", "acme", 2)
	if status := appErrorStatus(t, err); status != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", status)
	}
}

func TestList_ClientIDMismatch(t *testing.T) {
	svc, _ := newTestReportService(t, &fakeExtractor{text: "text"}, &fakeGenerator{})

	_, err := svc.List("globex", "acme")
	if status := appErrorStatus(t, err); status != http.StatusForbidden {
		t.Errorf("status = %d, expected 403", status)
	}
}

// TestReportLifecycle runs the full upload/upload-again/upload-next/compare
// sequence a client goes through week over week.
func TestReportLifecycle(t *testing.T) {
	gen := &fakeGenerator{reply: validReply}
	extractor := &fakeExtractor{text: "Revenue up 5%"}
	svc, _ := newTestReportService(t, extractor, gen)
	ctx := context.Background()

	// Week 1 upload succeeds.
	result, err := svc.Upload(ctx, "acme", uploadReq(1))
	if err != nil {
		t.Fatalf("week 1 Upload() error = %v", err)
	}
	if result.TextLength != 13 {
		t.Errorf("week 1 TextLength = %d, expected 13", result.TextLength)
	}

	// Uploading week 1 again conflicts.
	if _, err := svc.Upload(ctx, "acme", uploadReq(1)); err == nil {
		t.Fatal("second week 1 Upload() should fail")
	} else if status := appErrorStatus(t, err); status != http.StatusConflict {
		t.Errorf("second week 1 upload status = %d, expected 409", status)
	}

	// Week 2 upload succeeds.
	extractor.text = "Revenue up 10%"
	if _, err := svc.Upload(ctx, "acme", uploadReq(2)); err != nil {
		t.Fatalf("week 2 Upload() error = %v", err)
	}

	// Comparing week 2 against week 1 succeeds with the adjacent pair echoed.
	comparison, err := svc.Compare(ctx, "acme", "acme", 2)
	if err != nil {
		t.Fatalf("Compare(2) error = %v", err)
	}
	if comparison.WeekNumber != 2 || comparison.PreviousWeekNumber != 1 {
		t.Errorf("compared pair = (%d, %d), expected (2, 1)", comparison.WeekNumber, comparison.PreviousWeekNumber)
	}
	if comparison.Summary == "" || len(comparison.Highlights) == 0 {
		t.Error("comparison should carry summary and highlights")
	}
	if comparison.CreatedAt.IsZero() {
		t.Error("comparison should carry the current report's creation time")
	}

	// Comparing a week with no report is NotFound.
	if _, err := svc.Compare(ctx, "acme", "acme", 3); err == nil {
		t.Fatal("Compare(3) should fail")
	} else if status := appErrorStatus(t, err); status != http.StatusNotFound {
		t.Errorf("Compare(3) status = %d, expected 404", status)
	}

	// Listing shows both weeks, newest first, without raw text.
	metas, err := svc.List("acme", "acme")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("List() returned %d entries, expected 2", len(metas))
	}
	if metas[0].WeekNumber != 2 || metas[1].WeekNumber != 1 {
		t.Errorf("List() order = [%d, %d], expected [2, 1]", metas[0].WeekNumber, metas[1].WeekNumber)
	}
}

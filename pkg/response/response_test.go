package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, map[string]string{"name": "test"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message != "ok" {
		t.Errorf("expected message 'ok', got %q", resp.Message)
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestError_AppError(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
	}{
		{"bad request", NewBadRequest("invalid input"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("invalid token"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("client id mismatch"), http.StatusForbidden},
		{"not found", NewNotFound("no report found for week 3"), http.StatusNotFound},
		{"conflict", NewConflict("report for week 1 already exists"), http.StatusConflict},
		{"server error", NewServerError("failed to store report"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) {
				Error(c, tt.err)
			})

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			resp := parseResponse(t, w)
			if resp.Code != tt.err.Code {
				t.Errorf("expected code %d, got %d", tt.err.Code, resp.Code)
			}
			if resp.Message != tt.err.Message {
				t.Errorf("expected message %q, got %q", tt.err.Message, resp.Message)
			}
		})
	}
}

func TestError_WrappedAppError(t *testing.T) {
	wrapped := errors.Join(NewConflict("report for week 2 already exists"))

	w := performRequest(func(c *gin.Context) {
		Error(c, wrapped)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestError_GenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("boom"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 500 {
		t.Errorf("expected code 500, got %d", resp.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewNotFound("no report found for week 5")
	if err.Error() != "no report found for week 5" {
		t.Errorf("Error() = %q", err.Error())
	}
}

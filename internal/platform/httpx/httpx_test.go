package httpx_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/httpx"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()
	cases := map[error]int{
		apperrors.ErrInvalidInput:       http.StatusBadRequest,
		apperrors.ErrUsernameTaken:      http.StatusBadRequest,
		apperrors.ErrInvalidCredentials: http.StatusUnauthorized,
		apperrors.ErrUnauthorized:       http.StatusUnauthorized,
		apperrors.ErrForbidden:          http.StatusForbidden,
		apperrors.ErrNotFound:           http.StatusNotFound,
		apperrors.ErrAlreadyActive:      http.StatusConflict,
		apperrors.ErrDataInconsistency:  http.StatusInternalServerError,
		apperrors.ErrTimeout:            http.StatusServiceUnavailable,
		apperrors.ErrStoreUnavailable:   http.StatusServiceUnavailable,
		errors.New("boom"):              http.StatusInternalServerError,
	}
	for err, want := range cases {
		wrapped := fmt.Errorf("op: %w", err)
		if got := httpx.StatusFor(wrapped); got != want {
			t.Fatalf("%v: expected %d, got %d", err, want, got)
		}
	}
}

func TestWriteErrorHidesServerDetail(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	httpx.WriteError(rec, hclog.NewNullLogger(), req, fmt.Errorf("%w: visitor v-1 flagged active", apperrors.ErrDataInconsistency))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "v-1") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	httpx.WriteError(rec, hclog.NewNullLogger(), req, fmt.Errorf("%w: visitor v-2", apperrors.ErrAlreadyActive))
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "already checked in") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	var body struct {
		Purpose string `json:"purpose"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"purpose":"learn","extra":1}`))
	if err := httpx.DecodeJSON(req, &body); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestWithTimeoutSetsDeadline(t *testing.T) {
	t.Parallel()
	var deadline time.Time
	h := httpx.WithTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, _ = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))
	if deadline.IsZero() {
		t.Fatalf("expected request deadline")
	}
}

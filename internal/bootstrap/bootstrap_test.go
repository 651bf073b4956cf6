package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRequestTimeoutScopesReportBudget(t *testing.T) {
	t.Parallel()
	const operation, export = 2 * time.Second, 30 * time.Second

	var remaining time.Duration
	handler := requestTimeout(operation, export)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		deadline, ok := r.Context().Deadline()
		if !ok {
			t.Fatalf("expected a deadline on %s", r.URL.Path)
		}
		remaining = time.Until(deadline)
	}))

	cases := []struct {
		target string
		min    time.Duration
		max    time.Duration
	}{
		{"/admin/report?week=2026-W41&plugin=reportexport&format=xlsx", operation, export},
		{"/admin/active", 0, operation},
		{"/check-in", 0, operation},
	}
	for _, tc := range cases {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.target, nil))
		if remaining <= tc.min || remaining > tc.max {
			t.Fatalf("%s: expected budget in (%s, %s], got %s", tc.target, tc.min, tc.max, remaining)
		}
	}
}

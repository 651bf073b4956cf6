package in_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	hclog "github.com/hashicorp/go-hclog"

	plugindomain "visitlog/internal/modules/plugin/domain"
	plugindto "visitlog/internal/modules/plugin/dto"
	reporthttp "visitlog/internal/modules/report/adapter/in"
	"visitlog/internal/modules/report/dto"
	apperrors "visitlog/internal/platform/errors"
)

type fakeReports struct {
	weeks []string
	err   error
}

func (f *fakeReports) BuildWeeklyReport(context.Context, time.Time, time.Time) (dto.ReportOutput, error) {
	return dto.ReportOutput{}, f.err
}

func (f *fakeReports) WeeklyReport(_ context.Context, in dto.WeeklyReportInput) (dto.ReportOutput, error) {
	f.weeks = append(f.weeks, in.Week)
	if f.err != nil {
		return dto.ReportOutput{}, f.err
	}
	return dto.ReportOutput{
		Week:    "2026-W41",
		Title:   "Visits 2026-W41",
		Columns: []string{"Name", "Purpose"},
		Rows:    [][]string{{"Ama Owusu", "Study"}},
	}, nil
}

type fakeExporters struct {
	got plugindto.ExportInput
	err error
}

func (f *fakeExporters) List(context.Context) ([]plugindto.PluginInfo, error)     { return nil, nil }
func (f *fakeExporters) Doctor(context.Context) ([]plugindto.DoctorResult, error) { return nil, nil }
func (f *fakeExporters) Export(_ context.Context, in plugindto.ExportInput) (plugindto.ExportOutput, error) {
	f.got = in
	if f.err != nil {
		return plugindto.ExportOutput{}, f.err
	}
	return plugindto.ExportOutput{Content: []byte("Name,Purpose\n"), MediaType: "text/csv", FileExt: ".csv"}, nil
}

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(reports *fakeReports, exporters *fakeExporters) *mux.Router {
	r := mux.NewRouter()
	h := reporthttp.NewHTTPHandler(reports, exporters, hclog.NewNullLogger())
	h.Register(r, passthrough)
	return r
}

func TestWeeklyReportAsJSON(t *testing.T) {
	t.Parallel()
	reports := &fakeReports{}
	rec := httptest.NewRecorder()
	newRouter(reports, &fakeExporters{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/report?week=2026-W41", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Week    string     `json:"week"`
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Week != "2026-W41" || len(body.Rows) != 1 || body.Rows[0][0] != "Ama Owusu" {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(reports.weeks) != 1 || reports.weeks[0] != "2026-W41" {
		t.Fatalf("expected week to be forwarded, got %v", reports.weeks)
	}
}

func TestWeeklyReportThroughPlugin(t *testing.T) {
	t.Parallel()
	exporters := &fakeExporters{}
	rec := httptest.NewRecorder()
	newRouter(&fakeReports{}, exporters).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/report?plugin=reportexport", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv, got %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="visits-2026-W41.csv"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if exporters.got.Format != "csv" || exporters.got.PluginName != "reportexport" || exporters.got.Title != "Visits 2026-W41" {
		t.Fatalf("unexpected export input %+v", exporters.got)
	}
}

func TestWeeklyReportErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		reports   *fakeReports
		exporters *fakeExporters
		url       string
		want      int
	}{
		{name: "bad week", reports: &fakeReports{err: apperrors.ErrInvalidInput}, exporters: &fakeExporters{}, url: "/admin/report?week=nope", want: http.StatusBadRequest},
		{name: "unknown plugin", reports: &fakeReports{}, exporters: &fakeExporters{err: fmt.Errorf("%w: %w", plugindomain.ErrPluginNotFound, apperrors.ErrNotFound)}, url: "/admin/report?plugin=ghost", want: http.StatusNotFound},
		{name: "store down", reports: &fakeReports{err: apperrors.ErrStoreUnavailable}, exporters: &fakeExporters{}, url: "/admin/report", want: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(tc.reports, tc.exporters).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

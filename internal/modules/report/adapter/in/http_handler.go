package in

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	hclog "github.com/hashicorp/go-hclog"

	plugindto "visitlog/internal/modules/plugin/dto"
	pluginin "visitlog/internal/modules/plugin/port/in"
	"visitlog/internal/modules/report/dto"
	reportin "visitlog/internal/modules/report/port/in"
	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/httpx"
)

type HTTPHandler struct {
	reports   reportin.Usecase
	exporters pluginin.Usecase
	logger    hclog.Logger
}

// NewHTTPHandler accepts a nil exporters usecase. Plugin downloads then fail with 404.
func NewHTTPHandler(reports reportin.Usecase, exporters pluginin.Usecase, logger hclog.Logger) HTTPHandler {
	return HTTPHandler{reports: reports, exporters: exporters, logger: logger}
}

// ReportPath serves the weekly report and its plugin downloads.
const ReportPath = "/admin/report"

func (h HTTPHandler) Register(r *mux.Router, admin func(http.Handler) http.Handler) {
	r.Handle(ReportPath, admin(http.HandlerFunc(h.weekly))).Methods(http.MethodGet)
}

type reportJSON struct {
	Week        string     `json:"week"`
	Title       string     `json:"title"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
}

func (h HTTPHandler) weekly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.reports.WeeklyReport(r.Context(), dto.WeeklyReportInput{Week: q.Get("week")})
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}

	pluginName := strings.TrimSpace(q.Get("plugin"))
	if pluginName == "" {
		httpx.WriteJSON(w, http.StatusOK, reportJSON{
			Week:        report.Week,
			Title:       report.Title,
			Start:       report.Start,
			End:         report.End,
			GeneratedAt: report.GeneratedAt,
			Columns:     report.Columns,
			Rows:        report.Rows,
		})
		return
	}
	if h.exporters == nil {
		httpx.WriteError(w, h.logger, r, fmt.Errorf("%w: export plugins are not configured", apperrors.ErrNotFound))
		return
	}
	format := q.Get("format")
	if format == "" {
		format = "csv"
	}
	out, err := h.exporters.Export(r.Context(), plugindto.ExportInput{
		PluginName: pluginName,
		Format:     format,
		Title:      report.Title,
		Columns:    report.Columns,
		Rows:       report.Rows,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	w.Header().Set("Content-Type", out.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", FileName(report.Week, out.FileExt)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Content)
}

// FileName is the download name for an exported week, e.g. visits-2026-W41.csv.
func FileName(week, ext string) string {
	return "visits-" + week + ext
}

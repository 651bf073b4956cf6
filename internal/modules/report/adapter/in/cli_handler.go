package in

import (
	"context"

	plugindto "visitlog/internal/modules/plugin/dto"
	pluginin "visitlog/internal/modules/plugin/port/in"
	"visitlog/internal/modules/report/dto"
	reportin "visitlog/internal/modules/report/port/in"
)

type CLIHandler struct {
	reports   reportin.Usecase
	exporters pluginin.Usecase
}

func NewCLIHandler(reports reportin.Usecase, exporters pluginin.Usecase) CLIHandler {
	return CLIHandler{reports: reports, exporters: exporters}
}

func (h CLIHandler) Weekly(ctx context.Context, week string) (dto.ReportOutput, error) {
	return h.reports.WeeklyReport(ctx, dto.WeeklyReportInput{Week: week})
}

// Export renders the week through an exporter plugin.
func (h CLIHandler) Export(ctx context.Context, week, pluginName, format string) (dto.ReportOutput, plugindto.ExportOutput, error) {
	report, err := h.Weekly(ctx, week)
	if err != nil {
		return dto.ReportOutput{}, plugindto.ExportOutput{}, err
	}
	out, err := h.exporters.Export(ctx, plugindto.ExportInput{
		PluginName: pluginName,
		Format:     format,
		Title:      report.Title,
		Columns:    report.Columns,
		Rows:       report.Rows,
	})
	if err != nil {
		return report, plugindto.ExportOutput{}, err
	}
	return report, out, nil
}

package usecase

import (
	"context"
	"time"

	"visitlog/internal/modules/report/domain"
	"visitlog/internal/modules/report/dto"
	reportin "visitlog/internal/modules/report/port/in"
	"visitlog/internal/modules/report/service"
)

type Interactor struct {
	svc *service.ReportService
}

func NewInteractor(svc *service.ReportService) reportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) BuildWeeklyReport(ctx context.Context, start, end time.Time) (dto.ReportOutput, error) {
	report, err := i.svc.BuildWeeklyReport(ctx, start, end)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return toOutput(report), nil
}

func (i *Interactor) WeeklyReport(ctx context.Context, input dto.WeeklyReportInput) (dto.ReportOutput, error) {
	report, err := i.svc.WeeklyReport(ctx, input.Week)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return toOutput(report), nil
}

func toOutput(r domain.Report) dto.ReportOutput {
	out := dto.ReportOutput{
		Week:        r.Week,
		Title:       r.Title(),
		Start:       r.Start,
		End:         r.End,
		GeneratedAt: r.GeneratedAt,
		Columns:     append([]string(nil), domain.Columns...),
		Rows:        make([][]string, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		out.Rows = append(out.Rows, row.Cells())
	}
	return out
}

package in

import (
	"context"
	"time"

	"visitlog/internal/modules/report/dto"
)

type Usecase interface {
	BuildWeeklyReport(ctx context.Context, start, end time.Time) (dto.ReportOutput, error)
	WeeklyReport(ctx context.Context, input dto.WeeklyReportInput) (dto.ReportOutput, error)
}

package service

import (
	"context"
	"fmt"
	"time"

	"visitlog/internal/modules/report/domain"
	reportout "visitlog/internal/modules/report/port/out"
	"visitlog/internal/platform/calendar"
	"visitlog/internal/platform/clock"
	apperrors "visitlog/internal/platform/errors"
)

type ReportService struct {
	clock  clock.Clock
	reader reportout.SessionWindowReader
	loc    *time.Location
}

func NewReportService(clock clock.Clock, reader reportout.SessionWindowReader, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{clock: clock, reader: reader, loc: loc}
}

// BuildWeeklyReport lists every session, open or closed, whose facility day
// falls within [start, end]. It never writes.
func (s *ReportService) BuildWeeklyReport(ctx context.Context, start, end time.Time) (domain.Report, error) {
	if end.Before(start) {
		return domain.Report{}, fmt.Errorf("%w: report window ends before it starts", apperrors.ErrInvalidInput)
	}
	records, err := s.reader.ListSessionsBetween(ctx, calendar.Day(start, s.loc), calendar.Day(end, s.loc))
	if err != nil {
		return domain.Report{}, err
	}
	now := s.clock.Now()
	report := domain.Report{
		Start:       start,
		End:         end,
		GeneratedAt: now,
		Rows:        make([]domain.Row, 0, len(records)),
	}
	for _, rec := range records {
		report.Rows = append(report.Rows, domain.BuildRow(rec, now, s.loc))
	}
	return report, nil
}

// WeeklyReport resolves an ISO week such as 2026-W41; empty means the week
// before the current one.
func (s *ReportService) WeeklyReport(ctx context.Context, week string) (domain.Report, error) {
	var start, end time.Time
	if week == "" {
		start, end = calendar.PreviousWeek(s.clock.Now(), s.loc)
	} else {
		var err error
		start, end, err = calendar.ParseISOWeek(week, s.loc)
		if err != nil {
			return domain.Report{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	}
	report, err := s.BuildWeeklyReport(ctx, start, end)
	if err != nil {
		return domain.Report{}, err
	}
	report.Week = calendar.ISOWeek(start, s.loc)
	return report, nil
}

package dto

import "time"

type WeeklyReportInput struct {
	// Week is an ISO week (2026-W41). Empty selects the previous week.
	Week string
}

type ReportOutput struct {
	Week        string
	Title       string
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time
	Columns     []string
	Rows        [][]string
}

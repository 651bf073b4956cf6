package calendar_test

import (
	"testing"
	"time"

	"visitlog/internal/platform/calendar"
)

func TestWeekWindowStartsMonday(t *testing.T) {
	t.Parallel()
	// Wednesday 2026-02-25
	start, end := calendar.WeekWindow(time.Date(2026, 2, 25, 15, 30, 0, 0, time.UTC), time.UTC)
	if want := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("expected start %s, got %s", want, start)
	}
	if want := time.Date(2026, 3, 1, 23, 59, 59, 999999999, time.UTC); !end.Equal(want) {
		t.Fatalf("expected end %s, got %s", want, end)
	}

	// Sunday belongs to the week that started the previous Monday.
	start, _ = calendar.WeekWindow(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), time.UTC)
	if start.Day() != 23 {
		t.Fatalf("expected sunday to map to monday 23, got %s", start)
	}
}

func TestParseISOWeek(t *testing.T) {
	t.Parallel()
	start, end, err := calendar.ParseISOWeek("2026-W01", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 2026-01-01 is a Thursday, so week 1 starts on 2025-12-29.
	if want := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("expected %s, got %s", want, start)
	}
	if end.Weekday() != time.Sunday {
		t.Fatalf("expected window to end on sunday, got %s", end.Weekday())
	}
	if _, _, err := calendar.ParseISOWeek("2025-W53", time.UTC); err == nil {
		t.Fatalf("2025 has 52 iso weeks, week 53 must fail")
	}
	for _, bad := range []string{"2026-13", "2026-W411", "2026-W41junk", "2026-W4", " 2026-W41", "2026-w41"} {
		if _, _, err := calendar.ParseISOWeek(bad, time.UTC); err == nil {
			t.Fatalf("expected malformed week %q to fail", bad)
		}
	}
	if got := calendar.ISOWeek(start, time.UTC); got != "2026-W01" {
		t.Fatalf("expected round trip to 2026-W01, got %s", got)
	}
}

func TestPreviousWeek(t *testing.T) {
	t.Parallel()
	start, end := calendar.PreviousWeek(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), time.UTC)
	if want := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("expected %s, got %s", want, start)
	}
	if end.Day() != 11 {
		t.Fatalf("expected previous week to end on the 11th, got %s", end)
	}
}

func TestYearsBetween(t *testing.T) {
	t.Parallel()
	born := time.Date(2008, 6, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC), 17},
		{time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), 18},
		{time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		if got := calendar.YearsBetween(born, tc.now); got != tc.want {
			t.Fatalf("at %s expected %d, got %d", tc.now.Format(calendar.DateLayout), tc.want, got)
		}
	}
}

func TestDayUsesLocation(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+3", 3*3600)
	instant := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)
	if got := calendar.Day(instant, loc); got != "2026-03-02" {
		t.Fatalf("expected local day 2026-03-02, got %s", got)
	}
	if got := calendar.ClockTime(instant, loc); got != "01:30" {
		t.Fatalf("expected 01:30, got %s", got)
	}
}

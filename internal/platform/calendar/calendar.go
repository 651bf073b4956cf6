// Package calendar holds the date arithmetic shared by presence and reporting:
// facility calendar days, ISO weeks and age in whole years.
package calendar

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Day returns the calendar day of t in loc, formatted as YYYY-MM-DD.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ClockTime formats the wall clock of t in loc as HH:MM.
func ClockTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(clockLayout)
}

// WeekWindow returns the inclusive Monday 00:00 .. Sunday 23:59:59.999999999
// window of the ISO week containing t.
func WeekWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// PreviousWeek returns the window of the ISO week before the one containing now.
func PreviousWeek(now time.Time, loc *time.Location) (time.Time, time.Time) {
	start, _ := WeekWindow(now, loc)
	return WeekWindow(start.AddDate(0, 0, -7), loc)
}

// ParseISOWeek parses "2026-W07" and returns that week's window.
func ParseISOWeek(value string, loc *time.Location) (time.Time, time.Time, error) {
	var year, week int
	_, err := fmt.Sscanf(value, "%4d-W%2d", &year, &week)
	if err != nil || fmt.Sprintf("%04d-W%02d", year, week) != value {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid iso week %q: want YYYY-Www", value)
	}
	if week < 1 || week > 53 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid iso week %q: week out of range", value)
	}
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	week1 := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	monday := week1.AddDate(0, 0, (week-1)*7)
	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid iso week %q: year has no week %d", value, week)
	}
	start, end := WeekWindow(monday, loc)
	return start, end, nil
}

// ISOWeek formats the ISO week containing t, e.g. "2026-W07".
func ISOWeek(t time.Time, loc *time.Location) string {
	year, week := t.In(loc).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// YearsBetween counts complete years from born to now. Future birth dates yield 0.
func YearsBetween(born, now time.Time) int {
	now = now.In(born.Location())
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

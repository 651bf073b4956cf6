package service_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	reportadapter "visitlog/internal/modules/report/adapter/out"
	"visitlog/internal/modules/report/domain"
	"visitlog/internal/modules/report/service"
	"visitlog/internal/platform/calendar"
	"visitlog/internal/platform/clock"
	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/storage/sqlite"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "visitlog.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	created := sqlite.FormatTime(now.AddDate(0, -1, 0))
	_, err = db.Exec(`
INSERT INTO visitors (id, username, first_name, last_name, gender, date_of_birth, phone, password_hash, created_at, updated_at)
VALUES ('v1', 'ama', 'Ama', 'Mensah', 'female', '2008-05-01', '0241234567', 'x', ?, ?),
       ('v2', 'kofi', 'Kofi', 'Boateng', 'male', '2006-11-20', '0201234567', 'x', ?, ?)`,
		created, created, created, created)
	if err != nil {
		t.Fatalf("insert visitors: %v", err)
	}
	return db
}

func addSession(t *testing.T, db *sql.DB, id, visitorID string, in time.Time, out *time.Time) {
	t.Helper()
	var checkOut any
	var experience, targetMet any
	if out != nil {
		checkOut = sqlite.FormatTime(*out)
		experience, targetMet = "good", "yes"
	}
	_, err := db.Exec(`
INSERT INTO sessions (id, visitor_id, session_date, check_in_time, check_out_time, purpose, experience, target_met)
VALUES (?, ?, ?, ?, ?, 'learn', ?, ?)`,
		id, visitorID, calendar.Day(in, time.UTC), sqlite.FormatTime(in), checkOut, experience, targetMet)
	if err != nil {
		t.Fatalf("insert session %s: %v", id, err)
	}
}

func at(day, hour int) time.Time {
	return time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestWeeklyReportWindow(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	// Inserted out of chronological order on purpose.
	addSession(t, db, "s-wed", "v1", at(7, 9), ptr(at(7, 11)))
	addSession(t, db, "s-mon", "v2", at(5, 8), ptr(at(5, 10)))
	addSession(t, db, "s-next-mon", "v1", at(12, 8), ptr(at(12, 9)))
	addSession(t, db, "s-prev-sun", "v2", at(4, 15), ptr(at(4, 16)))
	addSession(t, db, "s-sun-open", "v2", at(11, 22), nil)

	svc := service.NewReportService(clock.Fixed(now), reportadapter.NewSQLiteSessionReader(db), time.UTC)
	start, end := calendar.WeekWindow(at(8, 0), time.UTC)
	report, err := svc.BuildWeeklyReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(report.Rows), report.Rows)
	}
	wantDates := []string{"2026-10-07", "2026-10-05", "2026-10-11"}
	for i, want := range wantDates {
		if report.Rows[i].Date != want {
			t.Fatalf("row %d: expected date %s, got %s", i, want, report.Rows[i].Date)
		}
	}
	open := report.Rows[2]
	if open.CheckOut != domain.NotAvailable || open.Experience != domain.NotAvailable || open.CheckIn != "22:00" {
		t.Fatalf("unexpected open row %+v", open)
	}
	if report.Rows[0].Age != "18" || report.Rows[1].Age != "19" {
		t.Fatalf("expected ages at generation time, got %s and %s", report.Rows[0].Age, report.Rows[1].Age)
	}

	var stillOpen int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE check_out_time IS NULL`).Scan(&stillOpen); err != nil {
		t.Fatalf("count open: %v", err)
	}
	if stillOpen != 1 {
		t.Fatalf("report must not close sessions, got %d open", stillOpen)
	}
}

func TestWeeklyReportDefaultsToPreviousWeek(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	addSession(t, db, "s-1", "v1", at(6, 9), ptr(at(6, 10)))
	addSession(t, db, "s-2", "v1", at(13, 9), ptr(at(13, 10)))

	svc := service.NewReportService(clock.Fixed(now), reportadapter.NewSQLiteSessionReader(db), time.UTC)
	report, err := svc.WeeklyReport(context.Background(), "")
	if err != nil {
		t.Fatalf("weekly report: %v", err)
	}
	if report.Week != "2026-W41" || len(report.Rows) != 1 || report.Rows[0].Date != "2026-10-06" {
		t.Fatalf("unexpected report %s %+v", report.Week, report.Rows)
	}

	current, err := svc.WeeklyReport(context.Background(), "2026-W42")
	if err != nil {
		t.Fatalf("weekly report: %v", err)
	}
	if len(current.Rows) != 1 || current.Rows[0].Date != "2026-10-13" {
		t.Fatalf("unexpected current week rows %+v", current.Rows)
	}
}

func TestWeeklyReportRejectsBadInput(t *testing.T) {
	t.Parallel()
	svc := service.NewReportService(clock.Fixed(now), reportadapter.NewSQLiteSessionReader(openDB(t)), time.UTC)
	for _, week := range []string{"last week", "2026-W41junk"} {
		if _, err := svc.WeeklyReport(context.Background(), week); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%q: expected invalid input, got %v", week, err)
		}
	}
	if _, err := svc.BuildWeeklyReport(context.Background(), at(9, 0), at(5, 0)); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for reversed window, got %v", err)
	}
}

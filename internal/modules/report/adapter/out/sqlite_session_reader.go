package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"visitlog/internal/modules/report/domain"
	reportout "visitlog/internal/modules/report/port/out"
	"visitlog/internal/platform/calendar"
	"visitlog/internal/platform/storage/sqlite"
)

type SQLiteSessionReader struct {
	db *sql.DB
}

func NewSQLiteSessionReader(db *sql.DB) reportout.SessionWindowReader {
	return &SQLiteSessionReader{db: db}
}

func (r *SQLiteSessionReader) ListSessionsBetween(ctx context.Context, fromDate, toDate string) ([]domain.SessionRecord, error) {
	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, `
SELECT v.first_name, v.middle_name, v.last_name, v.gender, v.date_of_birth, v.phone,
       s.session_date, s.check_in_time, s.check_out_time, s.purpose, s.experience, s.target_met
FROM sessions s
JOIN visitors v ON v.id = s.visitor_id
WHERE s.session_date >= ? AND s.session_date <= ?
ORDER BY s.seq`, fromDate, toDate)
	if err != nil {
		return nil, sqlite.Classify("list report sessions", err)
	}
	defer rows.Close()

	var out []domain.SessionRecord
	for rows.Next() {
		var (
			rec                   domain.SessionRecord
			dob, checkOut         sql.NullString
			checkIn               string
			experience, targetMet sql.NullString
		)
		if err := rows.Scan(&rec.FirstName, &rec.MiddleName, &rec.LastName, &rec.Gender, &dob, &rec.Phone,
			&rec.Date, &checkIn, &checkOut, &rec.Purpose, &experience, &targetMet); err != nil {
			return nil, sqlite.Classify("scan report session", err)
		}
		if dob.Valid && dob.String != "" {
			if rec.DateOfBirth, err = time.Parse(calendar.DateLayout, dob.String); err != nil {
				return nil, fmt.Errorf("parse date of birth: %w", err)
			}
		}
		if rec.CheckInTime, err = sqlite.ParseTime(checkIn); err != nil {
			return nil, err
		}
		if rec.CheckOutTime, err = sqlite.ParseNullTime(checkOut); err != nil {
			return nil, err
		}
		rec.Experience = experience.String
		rec.TargetMet = targetMet.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify("list report sessions", err)
	}
	return out, nil
}

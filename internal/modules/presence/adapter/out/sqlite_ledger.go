package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"visitlog/internal/modules/presence/domain"
	presenceout "visitlog/internal/modules/presence/port/out"
	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/storage/sqlite"
)

type SQLiteLedger struct {
	db *sql.DB
}

func NewSQLiteLedger(db *sql.DB) presenceout.Ledger {
	return &SQLiteLedger{db: db}
}

const sessionColumns = `id, visitor_id, session_date, check_in_time, check_out_time, purpose, experience, target_met`

func (l *SQLiteLedger) FindOpenSession(ctx context.Context, visitorID string) (domain.Session, error) {
	row := sqlite.Conn(ctx, l.db).QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE visitor_id = ? AND check_out_time IS NULL`, visitorID)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("%w: no open session for visitor %s", apperrors.ErrNotFound, visitorID)
	}
	if err != nil {
		return domain.Session{}, sqlite.Classify("find open session", err)
	}
	return session, nil
}

func (l *SQLiteLedger) ListOpenSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := sqlite.Conn(ctx, l.db).QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE check_out_time IS NULL ORDER BY seq`)
	if err != nil {
		return nil, sqlite.Classify("list open sessions", err)
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, sqlite.Classify("scan session", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify("list open sessions", err)
	}
	return out, nil
}

// InsertSession appends an open session. A conflict on the open-session
// index means the visitor already has one.
func (l *SQLiteLedger) InsertSession(ctx context.Context, session domain.Session) error {
	_, err := sqlite.Conn(ctx, l.db).ExecContext(ctx, `
INSERT INTO sessions (`+sessionColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.VisitorID,
		session.Date,
		sqlite.FormatTime(session.CheckInTime),
		sqlite.NullTime(session.CheckOutTime),
		string(session.Purpose),
		sqlite.NullString(session.Experience),
		sqlite.NullString(session.TargetMet),
	)
	if sqlite.IsUniqueViolation(err) {
		return fmt.Errorf("%w: visitor %s", apperrors.ErrAlreadyActive, session.VisitorID)
	}
	if err != nil {
		return sqlite.Classify("insert session", err)
	}
	return nil
}

// CloseSession sets the check-out of an open session. Closed rows are never
// touched again.
func (l *SQLiteLedger) CloseSession(ctx context.Context, sessionID string, checkOut time.Time, outcome domain.Outcome) error {
	res, err := sqlite.Conn(ctx, l.db).ExecContext(ctx, `
UPDATE sessions
SET check_out_time = ?, experience = ?, target_met = ?
WHERE id = ? AND check_out_time IS NULL`,
		sqlite.FormatTime(checkOut),
		outcome.Experience,
		outcome.TargetMet,
		sessionID,
	)
	if err != nil {
		return sqlite.Classify("close session", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return sqlite.Classify("close session", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: open session %s", apperrors.ErrNotFound, sessionID)
	}
	return nil
}

func (l *SQLiteLedger) CountSessions(ctx context.Context, visitorID string) (int, error) {
	var n int
	err := sqlite.Conn(ctx, l.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE visitor_id = ?`, visitorID).Scan(&n)
	if err != nil {
		return 0, sqlite.Classify("count sessions", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.Session, error) {
	var (
		session               domain.Session
		checkIn               string
		checkOut              sql.NullString
		purpose               string
		experience, targetMet sql.NullString
	)
	if err := row.Scan(&session.ID, &session.VisitorID, &session.Date, &checkIn, &checkOut, &purpose, &experience, &targetMet); err != nil {
		return domain.Session{}, err
	}
	var err error
	if session.CheckInTime, err = sqlite.ParseTime(checkIn); err != nil {
		return domain.Session{}, err
	}
	if session.CheckOutTime, err = sqlite.ParseNullTime(checkOut); err != nil {
		return domain.Session{}, err
	}
	session.Purpose = domain.Purpose(purpose)
	session.Experience = experience.String
	session.TargetMet = targetMet.String
	return session, nil
}

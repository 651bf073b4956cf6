package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"visitlog/internal/modules/visitor/domain"
	visitorout "visitlog/internal/modules/visitor/port/out"
	"visitlog/internal/platform/calendar"
	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/storage/sqlite"
)

type SQLiteProfileStore struct {
	db *sql.DB
}

func NewSQLiteProfileStore(db *sql.DB) visitorout.ProfileStore {
	return &SQLiteProfileStore{db: db}
}

const profileColumns = `id, username, first_name, middle_name, last_name, gender, date_of_birth, phone, password_hash, role, created_at`

// Create inserts an inactive profile. Presence columns keep their defaults.
func (s *SQLiteProfileStore) Create(ctx context.Context, p domain.Profile) error {
	var dob sql.NullString
	if !p.DateOfBirth.IsZero() {
		dob = sql.NullString{String: p.DateOfBirth.Format(calendar.DateLayout), Valid: true}
	}
	created := sqlite.FormatTime(p.CreatedAt)
	_, err := sqlite.Conn(ctx, s.db).ExecContext(ctx, `
INSERT INTO visitors (`+profileColumns+`, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Username, p.FirstName, p.MiddleName, p.LastName, p.Gender, dob, p.Phone, p.PasswordHash, string(p.Role), created, created,
	)
	if sqlite.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", apperrors.ErrUsernameTaken, p.Username)
	}
	if err != nil {
		return sqlite.Classify("create profile", err)
	}
	return nil
}

func (s *SQLiteProfileStore) FindByUsername(ctx context.Context, username string) (domain.Profile, error) {
	return s.findOne(ctx, "username", username)
}

func (s *SQLiteProfileStore) FindByID(ctx context.Context, id string) (domain.Profile, error) {
	return s.findOne(ctx, "id", id)
}

func (s *SQLiteProfileStore) findOne(ctx context.Context, column, value string) (domain.Profile, error) {
	row := sqlite.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT `+profileColumns+` FROM visitors WHERE `+column+` = ?`, value)
	var (
		p         domain.Profile
		dob       sql.NullString
		role      string
		createdAt string
	)
	err := row.Scan(&p.ID, &p.Username, &p.FirstName, &p.MiddleName, &p.LastName, &p.Gender, &dob, &p.Phone, &p.PasswordHash, &role, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("%w: visitor %s", apperrors.ErrNotFound, value)
	}
	if err != nil {
		return domain.Profile{}, sqlite.Classify("find profile", err)
	}
	if dob.Valid && dob.String != "" {
		if p.DateOfBirth, err = time.Parse(calendar.DateLayout, dob.String); err != nil {
			return domain.Profile{}, fmt.Errorf("parse date of birth: %w", err)
		}
	}
	if p.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return domain.Profile{}, err
	}
	p.Role = domain.Role(role)
	return p, nil
}

package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"visitlog/internal/modules/presence/domain"
	presenceout "visitlog/internal/modules/presence/port/out"
	"visitlog/internal/platform/clock"
	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/storage/sqlite"
)

// SQLiteDirectory reads the visitors table owned by the visitor module and
// writes only its presence columns.
type SQLiteDirectory struct {
	db    *sql.DB
	clock clock.Clock
}

func NewSQLiteDirectory(db *sql.DB, clock clock.Clock) presenceout.Directory {
	return &SQLiteDirectory{db: db, clock: clock}
}

const visitorColumns = `id, first_name, middle_name, last_name, role, active, current_purpose, created_at`

func (d *SQLiteDirectory) FindVisitor(ctx context.Context, visitorID string) (domain.Visitor, error) {
	row := sqlite.Conn(ctx, d.db).QueryRowContext(ctx, `SELECT `+visitorColumns+` FROM visitors WHERE id = ?`, visitorID)
	visitor, err := scanVisitor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Visitor{}, fmt.Errorf("%w: visitor %s", apperrors.ErrNotFound, visitorID)
	}
	if err != nil {
		return domain.Visitor{}, sqlite.Classify("find visitor", err)
	}
	return visitor, nil
}

func (d *SQLiteDirectory) ListVisitors(ctx context.Context, filter domain.ListFilter) ([]domain.Visitor, error) {
	var where []string
	var args []any
	if filter.ActiveOnly {
		where = append(where, "active = 1")
	}
	if filter.ExcludeAdmins {
		where = append(where, "role <> ?")
		args = append(args, string(domain.RoleAdmin))
	}
	query := `SELECT ` + visitorColumns + ` FROM visitors`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := sqlite.Conn(ctx, d.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlite.Classify("list visitors", err)
	}
	defer rows.Close()

	var out []domain.Visitor
	for rows.Next() {
		visitor, err := scanVisitor(rows)
		if err != nil {
			return nil, sqlite.Classify("scan visitor", err)
		}
		out = append(out, visitor)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify("list visitors", err)
	}
	return out, nil
}

func (d *SQLiteDirectory) SetPresence(ctx context.Context, visitorID string, presence domain.Presence) error {
	active := 0
	if presence.Active {
		active = 1
	}
	res, err := sqlite.Conn(ctx, d.db).ExecContext(ctx,
		`UPDATE visitors SET active = ?, current_purpose = ?, updated_at = ? WHERE id = ?`,
		active,
		sqlite.NullString(string(presence.Purpose)),
		sqlite.FormatTime(d.clock.Now()),
		visitorID,
	)
	if err != nil {
		return sqlite.Classify("set presence", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return sqlite.Classify("set presence", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: visitor %s", apperrors.ErrNotFound, visitorID)
	}
	return nil
}

func scanVisitor(row scanner) (domain.Visitor, error) {
	var (
		visitor   domain.Visitor
		role      string
		active    int
		purpose   sql.NullString
		createdAt string
	)
	if err := row.Scan(&visitor.ID, &visitor.FirstName, &visitor.MiddleName, &visitor.LastName, &role, &active, &purpose, &createdAt); err != nil {
		return domain.Visitor{}, err
	}
	created, err := sqlite.ParseTime(createdAt)
	if err != nil {
		return domain.Visitor{}, err
	}
	visitor.Role = domain.Role(role)
	visitor.Active = active == 1
	visitor.CurrentPurpose = domain.Purpose(purpose.String)
	visitor.CreatedAt = created
	return visitor, nil
}

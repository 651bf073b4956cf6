package out

import (
	"context"
	"time"

	"visitlog/internal/modules/presence/domain"
)

// Ledger is the append-only session history. FindOpenSession returns
// apperrors.ErrNotFound when the visitor has no open session.
type Ledger interface {
	FindOpenSession(ctx context.Context, visitorID string) (domain.Session, error)
	ListOpenSessions(ctx context.Context) ([]domain.Session, error)
	InsertSession(ctx context.Context, session domain.Session) error
	CloseSession(ctx context.Context, sessionID string, checkOut time.Time, outcome domain.Outcome) error
	CountSessions(ctx context.Context, visitorID string) (int, error)
}

// Directory exposes visitor presence flags. SetPresence is only called by
// the presence service inside a ledger transaction.
type Directory interface {
	FindVisitor(ctx context.Context, visitorID string) (domain.Visitor, error)
	ListVisitors(ctx context.Context, filter domain.ListFilter) ([]domain.Visitor, error)
	SetPresence(ctx context.Context, visitorID string, presence domain.Presence) error
}

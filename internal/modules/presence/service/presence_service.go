package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"visitlog/internal/modules/presence/domain"
	presenceout "visitlog/internal/modules/presence/port/out"
	"visitlog/internal/platform/calendar"
	"visitlog/internal/platform/clock"
	apperrors "visitlog/internal/platform/errors"
	"visitlog/internal/platform/id"
	"visitlog/internal/platform/keylock"
	"visitlog/internal/platform/tx"
)

type Options struct {
	Location              *time.Location
	DeactivateConcurrency int
	Logger                hclog.Logger
}

// PresenceService is the only writer of sessions and presence flags.
//
// Writes for one visitor are serialized by a keyed lock and applied in a
// single transaction, so the flag and the ledger never disagree between
// commits. Reads take no lock: they see a committed snapshot that may trail
// an in-flight write.
type PresenceService struct {
	clock     clock.Clock
	idGen     id.Generator
	txm       tx.Manager
	ledger    presenceout.Ledger
	directory presenceout.Directory
	locks     *keylock.Map
	loc       *time.Location
	parallel  int
	logger    hclog.Logger
}

func NewPresenceService(clock clock.Clock, idGen id.Generator, txm tx.Manager, ledger presenceout.Ledger, directory presenceout.Directory, opts Options) *PresenceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DeactivateConcurrency < 1 {
		opts.DeactivateConcurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &PresenceService{
		clock:     clock,
		idGen:     idGen,
		txm:       txm,
		ledger:    ledger,
		directory: directory,
		locks:     keylock.New(),
		loc:       opts.Location,
		parallel:  opts.DeactivateConcurrency,
		logger:    opts.Logger,
	}
}

func (s *PresenceService) CheckIn(ctx context.Context, visitorID string, purpose domain.Purpose) (domain.Session, error) {
	if err := purpose.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	unlock, err := s.lock(ctx, visitorID)
	if err != nil {
		return domain.Session{}, err
	}
	defer unlock()

	var session domain.Session
	err = s.txm.Within(ctx, func(ctx context.Context) error {
		visitor, err := s.directory.FindVisitor(ctx, visitorID)
		if err != nil {
			return err
		}
		if visitor.Active {
			return fmt.Errorf("%w: visitor %s", apperrors.ErrAlreadyActive, visitorID)
		}
		hasOpen, err := s.hasOpenSession(ctx, visitorID)
		if err != nil {
			return err
		}
		if err := visitor.CheckConsistency(hasOpen); err != nil {
			return s.inconsistent("check-in", visitorID, err)
		}

		now := s.clock.Now()
		session = domain.Session{
			ID:          s.idGen.New(),
			VisitorID:   visitorID,
			Date:        calendar.Day(now, s.loc),
			CheckInTime: now,
			Purpose:     purpose,
		}
		if err := s.ledger.InsertSession(ctx, session); err != nil {
			return err
		}
		return s.directory.SetPresence(ctx, visitorID, domain.PresenceFor(session))
	})
	if err != nil {
		return domain.Session{}, err
	}
	s.logger.Debug("checked in", "visitor_id", visitorID, "session_id", session.ID, "purpose", purpose)
	return session, nil
}

// CheckOut closes the visitor's open session. An inactive visitor is a
// successful no-op reported with closed=false.
func (s *PresenceService) CheckOut(ctx context.Context, visitorID string, outcome domain.Outcome) (domain.Session, bool, error) {
	return s.closeOpen(ctx, "check-out", visitorID, outcome)
}

// ForceCheckOut is CheckOut with administrator sentinels for empty outcome fields.
func (s *PresenceService) ForceCheckOut(ctx context.Context, visitorID string, outcome domain.Outcome) (domain.Session, bool, error) {
	return s.closeOpen(ctx, "force-check-out", visitorID, domain.ForcedOutcome(outcome))
}

// ForceCheckOutAll force-closes every active visitor, admins included. Each
// visitor is attempted independently; only failing to enumerate them is fatal.
func (s *PresenceService) ForceCheckOutAll(ctx context.Context, outcome domain.Outcome) ([]domain.Deactivation, error) {
	visitors, err := s.directory.ListVisitors(ctx, domain.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	outcome = domain.ForcedOutcome(outcome)
	results := make([]domain.Deactivation, len(visitors))

	// Plain group: a failed visitor must not cancel the others.
	var g errgroup.Group
	g.SetLimit(s.parallel)
	for i, visitor := range visitors {
		i, visitor := i, visitor
		g.Go(func() error {
			_, closed, err := s.closeOpen(ctx, "force-check-out-all", visitor.ID, outcome)
			results[i] = domain.Deactivation{VisitorID: visitor.ID, Closed: closed, Err: err}
			if err != nil {
				s.logger.Warn("forced checkout failed", "visitor_id", visitor.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

// ListActive returns present non-admin visitors, most recent check-in first.
func (s *PresenceService) ListActive(ctx context.Context) ([]domain.ActiveVisitor, error) {
	var visitors []domain.Visitor
	var open []domain.Session
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		var err error
		visitors, err = s.directory.ListVisitors(ctx, domain.ListFilter{ActiveOnly: true, ExcludeAdmins: true})
		if err != nil {
			return err
		}
		open, err = s.ledger.ListOpenSessions(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	byVisitor := make(map[string]domain.Session, len(open))
	for _, session := range open {
		byVisitor[session.VisitorID] = session
	}
	out := make([]domain.ActiveVisitor, 0, len(visitors))
	for _, visitor := range visitors {
		session, ok := byVisitor[visitor.ID]
		if !ok {
			_ = s.inconsistent("list-active", visitor.ID, visitor.CheckConsistency(false))
			continue
		}
		out = append(out, domain.ActiveVisitor{Visitor: visitor, SessionID: session.ID, CheckInTime: session.CheckInTime})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CheckInTime.Equal(out[j].CheckInTime) {
			return out[i].CheckInTime.After(out[j].CheckInTime)
		}
		return out[i].Visitor.ID < out[j].Visitor.ID
	})
	return out, nil
}

// ListAll returns every non-admin visitor regardless of presence.
func (s *PresenceService) ListAll(ctx context.Context) ([]domain.Visitor, error) {
	return s.directory.ListVisitors(ctx, domain.ListFilter{ExcludeAdmins: true})
}

// Status returns the visitor and, when present, its open session.
func (s *PresenceService) Status(ctx context.Context, visitorID string) (domain.Visitor, domain.Session, error) {
	var visitor domain.Visitor
	var open domain.Session
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		var err error
		visitor, err = s.directory.FindVisitor(ctx, visitorID)
		if err != nil || !visitor.Active {
			return err
		}
		open, err = s.ledger.FindOpenSession(ctx, visitorID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.inconsistent("status", visitorID, visitor.CheckConsistency(false))
		}
		return err
	})
	if err != nil {
		return domain.Visitor{}, domain.Session{}, err
	}
	return visitor, open, nil
}

// Audit reports every visitor whose presence flag disagrees with the ledger.
func (s *PresenceService) Audit(ctx context.Context) ([]domain.Violation, error) {
	var visitors []domain.Visitor
	var open []domain.Session
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		var err error
		visitors, err = s.directory.ListVisitors(ctx, domain.ListFilter{})
		if err != nil {
			return err
		}
		open, err = s.ledger.ListOpenSessions(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	violations := domain.Audit(visitors, open)
	for _, v := range violations {
		s.logger.Error("presence audit violation", "visitor_id", v.VisitorID, "problem", v.Problem)
	}
	return violations, nil
}

func (s *PresenceService) closeOpen(ctx context.Context, op, visitorID string, outcome domain.Outcome) (domain.Session, bool, error) {
	unlock, err := s.lock(ctx, visitorID)
	if err != nil {
		return domain.Session{}, false, err
	}
	defer unlock()

	var closed domain.Session
	didClose := false
	err = s.txm.Within(ctx, func(ctx context.Context) error {
		visitor, err := s.directory.FindVisitor(ctx, visitorID)
		if err != nil {
			return err
		}
		if !visitor.Active {
			return nil
		}
		open, err := s.ledger.FindOpenSession(ctx, visitorID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.inconsistent(op, visitorID, visitor.CheckConsistency(false))
		}
		if err != nil {
			return err
		}
		closed, err = open.Close(s.clock.Now(), outcome)
		if err != nil {
			return s.inconsistent(op, visitorID, err)
		}
		if err := s.ledger.CloseSession(ctx, closed.ID, closed.CheckOutTime, outcome); err != nil {
			return err
		}
		if err := s.directory.SetPresence(ctx, visitorID, domain.PresenceFor(closed)); err != nil {
			return err
		}
		didClose = true
		return nil
	})
	if err != nil {
		return domain.Session{}, false, err
	}
	if didClose {
		s.logger.Debug("checked out", "op", op, "visitor_id", visitorID, "session_id", closed.ID)
	}
	return closed, didClose, nil
}

func (s *PresenceService) hasOpenSession(ctx context.Context, visitorID string) (bool, error) {
	_, err := s.ledger.FindOpenSession(ctx, visitorID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *PresenceService) lock(ctx context.Context, visitorID string) (func(), error) {
	unlock, err := s.locks.Lock(ctx, visitorID)
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for visitor %s: %w", apperrors.ErrTimeout, visitorID, err)
	}
	return unlock, nil
}

// inconsistent logs a flag/ledger desync and returns it as ErrDataInconsistency.
// Nothing is repaired here; the audit command surfaces it for an operator.
func (s *PresenceService) inconsistent(op, visitorID string, cause error) error {
	s.logger.Error("presence data inconsistency", "op", op, "visitor_id", visitorID, "error", cause)
	return fmt.Errorf("%w: %v", apperrors.ErrDataInconsistency, cause)
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Visitor is the directory view the presence engine works with. Active and
// CurrentPurpose are a materialized view of the ledger: they are written in
// the same transaction as the session they describe and nowhere else.
type Visitor struct {
	ID             string
	FirstName      string
	MiddleName     string
	LastName       string
	Role           Role
	Active         bool
	CurrentPurpose Purpose
	CreatedAt      time.Time
}

func (v Visitor) FullName() string {
	parts := []string{v.FirstName}
	if strings.TrimSpace(v.MiddleName) != "" {
		parts = append(parts, v.MiddleName)
	}
	parts = append(parts, v.LastName)
	return strings.Join(parts, " ")
}

func (v Visitor) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// Presence is the denormalized flag pair stored on the visitor.
type Presence struct {
	Active  bool
	Purpose Purpose
}

// PresenceFor derives the flag pair implied by session.
func PresenceFor(session Session) Presence {
	if !session.Open() {
		return Presence{}
	}
	return Presence{Active: true, Purpose: session.Purpose}
}

// CheckConsistency compares the stored flag with the ledger. hasOpen reports
// whether an open session exists for v.
func (v Visitor) CheckConsistency(hasOpen bool) error {
	switch {
	case v.Active && !hasOpen:
		return fmt.Errorf("visitor %s is flagged active without an open session", v.ID)
	case !v.Active && hasOpen:
		return fmt.Errorf("visitor %s has an open session but is flagged inactive", v.ID)
	default:
		return nil
	}
}

// ActiveVisitor pairs a present visitor with the check-in of its open session.
type ActiveVisitor struct {
	Visitor     Visitor
	SessionID   string
	CheckInTime time.Time
}

// Deactivation is the per-visitor outcome of a mass forced checkout.
type Deactivation struct {
	VisitorID string
	Closed    bool
	Err       error
}

type ListFilter struct {
	ActiveOnly    bool
	ExcludeAdmins bool
}

// Violation describes a visitor whose flag disagrees with the ledger.
type Violation struct {
	VisitorID string
	Problem   string
}

// Audit checks every visitor against the open sessions of the ledger.
func Audit(visitors []Visitor, open []Session) []Violation {
	byVisitor := map[string][]Session{}
	for _, s := range open {
		byVisitor[s.VisitorID] = append(byVisitor[s.VisitorID], s)
	}
	var out []Violation
	for _, v := range visitors {
		sessions := byVisitor[v.ID]
		if len(sessions) > 1 {
			out = append(out, Violation{VisitorID: v.ID, Problem: fmt.Sprintf("%d open sessions", len(sessions))})
			continue
		}
		if err := v.CheckConsistency(len(sessions) == 1); err != nil {
			out = append(out, Violation{VisitorID: v.ID, Problem: err.Error()})
			continue
		}
		if len(sessions) == 1 && v.CurrentPurpose != sessions[0].Purpose {
			out = append(out, Violation{VisitorID: v.ID, Problem: fmt.Sprintf("current purpose %q differs from open session purpose %q", v.CurrentPurpose, sessions[0].Purpose)})
		}
		if !v.Active && v.CurrentPurpose != "" {
			out = append(out, Violation{VisitorID: v.ID, Problem: "inactive visitor keeps a current purpose"})
		}
	}
	return out
}

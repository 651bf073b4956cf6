package domain

import (
	"fmt"
	"time"
)

type Purpose string

const (
	PurposeLearn    Purpose = "learn"
	PurposeResearch Purpose = "research"
	PurposeExplore  Purpose = "explore"
)

func (p Purpose) Validate() error {
	switch p {
	case PurposeLearn, PurposeResearch, PurposeExplore:
		return nil
	default:
		return fmt.Errorf("unsupported purpose %q", string(p))
	}
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Sentinel outcome recorded when an administrator closes a session.
const (
	ForcedExperience = "Checked out by administrator"
	ForcedTargetMet  = "N/A"
)

// Session is one check-in to check-out interval. A zero CheckOutTime means open.
type Session struct {
	ID           string
	VisitorID    string
	Date         string
	CheckInTime  time.Time
	CheckOutTime time.Time
	Purpose      Purpose
	Experience   string
	TargetMet    string
}

func (s Session) Open() bool {
	return s.CheckOutTime.IsZero()
}

// Outcome is the self-reported result captured at check-out.
type Outcome struct {
	Experience string
	TargetMet  string
}

// ForcedOutcome fills empty fields with the administrator sentinels.
func ForcedOutcome(o Outcome) Outcome {
	if o.Experience == "" {
		o.Experience = ForcedExperience
	}
	if o.TargetMet == "" {
		o.TargetMet = ForcedTargetMet
	}
	return o
}

// Close returns the session closed at t. Closing an already closed session
// is refused so recorded history is never rewritten.
func (s Session) Close(at time.Time, outcome Outcome) (Session, error) {
	if !s.Open() {
		return Session{}, fmt.Errorf("session %s already closed", s.ID)
	}
	if at.Before(s.CheckInTime) {
		at = s.CheckInTime
	}
	s.CheckOutTime = at
	s.Experience = outcome.Experience
	s.TargetMet = outcome.TargetMet
	return s, nil
}

// Duration is the length of a closed session, or the elapsed time until now
// for an open one.
func (s Session) Duration(now time.Time) time.Duration {
	end := s.CheckOutTime
	if s.Open() {
		end = now
	}
	if end.Before(s.CheckInTime) {
		return 0
	}
	return end.Sub(s.CheckInTime)
}

package dto

import "time"

type CheckInInput struct {
	VisitorID string
	Purpose   string
}

type CheckInOutput struct {
	SessionID   string
	VisitorID   string
	Purpose     string
	CheckInTime time.Time
}

type CheckOutInput struct {
	VisitorID  string
	Experience string
	TargetMet  string
}

// CheckOutOutput reports Closed=false when the visitor was not checked in.
type CheckOutOutput struct {
	VisitorID    string
	Closed       bool
	SessionID    string
	Purpose      string
	CheckInTime  time.Time
	CheckOutTime time.Time
	DurationMin  int
}

type ForceCheckOutAllInput struct {
	Experience string
	TargetMet  string
}

type DeactivationOutput struct {
	VisitorID string
	Closed    bool
	Error     string
}

type DeactivateAllOutput struct {
	Attempted int
	Closed    int
	Failed    int
	Results   []DeactivationOutput
}

type VisitorOutput struct {
	ID             string
	FullName       string
	FirstName      string
	Role           string
	Active         bool
	CurrentPurpose string
}

type ActiveVisitorOutput struct {
	Visitor     VisitorOutput
	SessionID   string
	CheckInTime time.Time
}

type StatusOutput struct {
	Visitor     VisitorOutput
	CheckInTime time.Time
}

type ViolationOutput struct {
	VisitorID string
	Problem   string
}

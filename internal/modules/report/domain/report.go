package domain

import (
	"strconv"
	"strings"
	"time"

	"visitlog/internal/platform/calendar"
)

// NotAvailable marks a cell with no recorded value.
const NotAvailable = "N/A"

// Columns is the header shared by every report format.
var Columns = []string{
	"Full Name", "Gender", "Age", "Phone", "Date", "Check In", "Check Out", "Purpose", "Experience", "Target Met",
}

// SessionRecord is one ledger row joined with its visitor.
type SessionRecord struct {
	FirstName    string
	MiddleName   string
	LastName     string
	Gender       string
	DateOfBirth  time.Time
	Phone        string
	Date         string
	CheckInTime  time.Time
	CheckOutTime time.Time
	Purpose      string
	Experience   string
	TargetMet    string
}

type Row struct {
	FullName   string
	Gender     string
	Age        string
	Phone      string
	Date       string
	CheckIn    string
	CheckOut   string
	Purpose    string
	Experience string
	TargetMet  string
}

// Cells returns the row in Columns order.
func (r Row) Cells() []string {
	return []string{r.FullName, r.Gender, r.Age, r.Phone, r.Date, r.CheckIn, r.CheckOut, r.Purpose, r.Experience, r.TargetMet}
}

// BuildRow renders rec for display. Age is taken at now; times are shown in loc.
func BuildRow(rec SessionRecord, now time.Time, loc *time.Location) Row {
	row := Row{
		FullName:   fullName(rec),
		Gender:     orNA(rec.Gender),
		Age:        NotAvailable,
		Phone:      orNA(rec.Phone),
		Date:       rec.Date,
		CheckIn:    calendar.ClockTime(rec.CheckInTime, loc),
		CheckOut:   NotAvailable,
		Purpose:    rec.Purpose,
		Experience: orNA(rec.Experience),
		TargetMet:  orNA(rec.TargetMet),
	}
	if !rec.DateOfBirth.IsZero() {
		row.Age = strconv.Itoa(calendar.YearsBetween(rec.DateOfBirth, now))
	}
	if !rec.CheckOutTime.IsZero() {
		row.CheckOut = calendar.ClockTime(rec.CheckOutTime, loc)
	}
	return row
}

// Report is a weekly extract. Rows keep ledger insertion order.
type Report struct {
	Week        string
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time
	Rows        []Row
}

// Title names the report for exported files.
func (r Report) Title() string {
	if r.Week != "" {
		return "Weekly visitor report " + r.Week
	}
	return "Visitor report " + r.Start.Format(calendar.DateLayout) + " to " + r.End.Format(calendar.DateLayout)
}

func fullName(rec SessionRecord) string {
	parts := []string{rec.FirstName}
	if strings.TrimSpace(rec.MiddleName) != "" {
		parts = append(parts, rec.MiddleName)
	}
	return strings.Join(append(parts, rec.LastName), " ")
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotAvailable
	}
	return v
}

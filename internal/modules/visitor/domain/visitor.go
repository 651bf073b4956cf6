package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"visitlog/internal/platform/calendar"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	MinAge = 14
	MaxAge = 24
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,20}$`)
	phonePattern    = regexp.MustCompile(`^(\+233|0)[2457][0-9]{8}$`)
)

// Profile is a registered account. PasswordHash is never exposed past the service.
type Profile struct {
	ID           string
	Username     string
	FirstName    string
	MiddleName   string
	LastName     string
	Gender       string
	DateOfBirth  time.Time
	Phone        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func (p Profile) FullName() string {
	parts := []string{p.FirstName}
	if strings.TrimSpace(p.MiddleName) != "" {
		parts = append(parts, p.MiddleName)
	}
	return strings.Join(append(parts, p.LastName), " ")
}

// Registration is the raw sign-up form.
type Registration struct {
	FirstName       string
	MiddleName      string
	LastName        string
	Username        string
	Gender          string
	DateOfBirth     string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            Role
}

// Normalize trims every free-text field. Passwords are left untouched.
func (r Registration) Normalize() Registration {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.MiddleName = strings.TrimSpace(r.MiddleName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Username = strings.TrimSpace(r.Username)
	r.Gender = strings.TrimSpace(r.Gender)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Phone = strings.TrimSpace(r.Phone)
	return r
}

// ValidateSelf applies the public sign-up rules. now anchors the age check.
func (r Registration) ValidateSelf(now time.Time) error {
	errs := r.common()
	if r.Gender == "" {
		errs = append(errs, errors.New("gender is required"))
	}
	if r.DateOfBirth == "" {
		errs = append(errs, errors.New("date of birth is required"))
	} else if dob, err := r.BirthDate(); err != nil {
		errs = append(errs, errors.New("date of birth must be a valid date"))
	} else if age := calendar.YearsBetween(dob, now); age < MinAge || age > MaxAge {
		errs = append(errs, fmt.Errorf("you must be between %d and %d years old", MinAge, MaxAge))
	}
	if r.Phone == "" {
		errs = append(errs, errors.New("phone number is required"))
	} else if !phonePattern.MatchString(r.Phone) {
		errs = append(errs, errors.New("phone number must be a valid Ghanaian one"))
	}
	return errors.Join(errs...)
}

// ValidateAdmin applies the rules for accounts created by an administrator.
func (r Registration) ValidateAdmin() error {
	errs := r.common()
	if r.Role != RoleUser && r.Role != RoleAdmin {
		errs = append(errs, fmt.Errorf("unsupported role %q", string(r.Role)))
	}
	if r.DateOfBirth != "" {
		if _, err := r.BirthDate(); err != nil {
			errs = append(errs, errors.New("date of birth must be a valid date"))
		}
	}
	return errors.Join(errs...)
}

// BirthDate parses DateOfBirth; an empty value yields the zero time.
func (r Registration) BirthDate() (time.Time, error) {
	if r.DateOfBirth == "" {
		return time.Time{}, nil
	}
	return time.Parse(calendar.DateLayout, r.DateOfBirth)
}

func (r Registration) common() []error {
	var errs []error
	if r.FirstName == "" {
		errs = append(errs, errors.New("first name is required"))
	}
	if r.LastName == "" {
		errs = append(errs, errors.New("last name is required"))
	}
	switch {
	case r.Username == "":
		errs = append(errs, errors.New("username is required"))
	case !usernamePattern.MatchString(r.Username):
		errs = append(errs, errors.New("username must be 3 to 20 letters, digits, underscores or dots"))
	}
	errs = append(errs, passwordErrors(r.Password)...)
	if r.ConfirmPassword != r.Password {
		errs = append(errs, errors.New("passwords do not match"))
	}
	return errs
}

func passwordErrors(password string) []error {
	if password == "" {
		return []error{errors.New("password is required")}
	}
	var errs []error
	if n := len([]rune(password)); n < 8 || n > 64 {
		errs = append(errs, errors.New("password must be between 8 and 64 characters long"))
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		errs = append(errs, errors.New("password must contain at least one uppercase letter"))
	}
	if !lower {
		errs = append(errs, errors.New("password must contain at least one lowercase letter"))
	}
	if !digit {
		errs = append(errs, errors.New("password must contain at least one number"))
	}
	return errs
}

package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyActive      = errors.New("visitor already checked in")
	ErrDataInconsistency  = errors.New("presence data inconsistency")
	ErrTimeout            = errors.New("operation timed out")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// Transient reports whether err is an infrastructure fault the caller may retry.
func Transient(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrStoreUnavailable)
}

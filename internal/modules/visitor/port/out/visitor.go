package out

import (
	"context"

	"visitlog/internal/modules/visitor/domain"
)

// ProfileStore persists accounts. Create returns apperrors.ErrUsernameTaken
// on a duplicate username; lookups return apperrors.ErrNotFound.
type ProfileStore interface {
	Create(ctx context.Context, profile domain.Profile) error
	FindByUsername(ctx context.Context, username string) (domain.Profile, error)
	FindByID(ctx context.Context, id string) (domain.Profile, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil only when password matches hash.
	Compare(hash, password string) error
}

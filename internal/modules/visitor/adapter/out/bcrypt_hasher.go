package out

import (
	"golang.org/x/crypto/bcrypt"

	visitorout "visitlog/internal/modules/visitor/port/out"
)

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) visitorout.PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

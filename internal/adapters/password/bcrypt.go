package password

// Package password provides the bcrypt implementation of the password hasher
// port.

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

// BcryptHasher hashes passwords with bcrypt. Cost zero uses the bcrypt
// default; tests pass bcrypt.MinCost to stay fast.
type BcryptHasher struct {
	Cost int
}

var _ ports.PasswordHasher = BcryptHasher{}

// ErrMismatch is returned by Compare when the password does not match.
var ErrMismatch = errors.New("password does not match")

func (h BcryptHasher) cost() int {
	if h.Cost > 0 {
		return h.Cost
	}
	return bcrypt.DefaultCost
}

// Hash returns the bcrypt hash of the password.
func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare returns nil when the password matches the hash and ErrMismatch when
// it does not. Any other failure (e.g., a corrupt hash) is returned as-is.
func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

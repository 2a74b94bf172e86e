package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash means a stored hash could not be used for comparison.
// It is an internal failure, distinct from a wrong password.
var ErrMalformedHash = errors.New("malformed password hash")

const decoyPassword = "decoy-password-for-unknown-users"

// PasswordHasher wraps bcrypt.
type PasswordHasher struct {
	cost  int
	decoy []byte
}

// NewPasswordHasher validates cost (0 selects bcrypt.DefaultCost) and
// precomputes the decoy hash used by CompareDecoy.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	decoy, err := bcrypt.GenerateFromPassword([]byte(decoyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, decoy: decoy}, nil
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *PasswordHasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// CompareDecoy burns one bcrypt comparison so that a login for an unknown
// username takes as long as one with a wrong password.
func (h *PasswordHasher) CompareDecoy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(plaintext))
}

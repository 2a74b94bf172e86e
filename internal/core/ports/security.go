package ports

import (
	"time"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns false, nil on a wrong password and an error only when the
	// stored hash itself is unusable.
	Verify(plaintext, hash string) (bool, error)
	// CompareDecoy spends the same work as Verify against a throwaway hash.
	CompareDecoy(plaintext string)
}

// TokenIssuer signs identities into bearer tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (token string, expiresAt time.Time, err error)
}

// TokenVerifier decodes bearer tokens. Any failure is reported as a single
// invalid-token error.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

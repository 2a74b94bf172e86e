package domain

import (
	"errors"
	"time"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = time.Hour

// ErrInvalidToken covers every way a token can fail verification: bad
// signature, expiry, malformed encoding or unusable claims.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the decoded claim set of a verified token. It lives for one
// request and is never stored.
type Identity struct {
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the identity carries exactly the given role.
func (i Identity) HasRole(r Role) bool {
	return i.Role == r
}

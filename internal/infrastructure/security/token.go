package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens signed with a single
// process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{secret: []byte(secret), ttl: domain.TokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs the identity's username and role with an expiry of now+TokenTTL.
func (s *TokenService) Issue(identity domain.Identity) (string, time.Time, error) {
	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)

	claims := tokenClaims{
		Username: identity.Username,
		Role:     string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, then expiry, then claim shape. All failures
// return domain.ErrInvalidToken so callers cannot tell them apart.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if claims.Username == "" || !role.Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	identity := domain.Identity{
		Username:  claims.Username,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}

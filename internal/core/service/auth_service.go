package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/pkg/metrics"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a user. A taken username is rejected before the password
// is hashed or anything is written.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := domain.ValidateRegistration(input.Username, input.Password, input.Role); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "rejected").Inc()
		return nil, err
	}

	_, err := s.repo.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return nil, domain.ErrUserExists
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	verr := &domain.ValidationError{}
	if username == "" {
		verr.Add("username", "username is required")
	}
	if password == "" {
		verr.Add("password", "password is required")
	}
	if err := verr.OrNil(); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.CompareDecoy(password)
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: user %q: %w", username, err)
	}
	if !ok {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(domain.Identity{Username: user.Username, Role: user.Role})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &ports.LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

package ports

import (
	"context"
	"time"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Username string
	Password string
	Role     domain.Role
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

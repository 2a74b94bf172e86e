package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// Lookups by an id that does not exist, or cannot exist for the backing
// store, return domain.ErrProductNotFound.
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// Create assigns p.ID and timestamps.
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

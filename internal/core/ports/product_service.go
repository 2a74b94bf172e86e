package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
}

// CreateProductInput adds the request metadata needed for creation.
type CreateProductInput struct {
	ProductInput
	// Actor is the username performing the change.
	Actor          string
	IdempotencyKey string
}

// CreateProductResult is returned by CreateProduct.
type CreateProductResult struct {
	Product *domain.Product
	// Replayed is true when the Idempotency-Key matched an earlier creation.
	Replayed bool
}

// ProductService defines use-case operations for products.
type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*CreateProductResult, error)
	UpdateProduct(ctx context.Context, id, actor string, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id, actor string) error
}

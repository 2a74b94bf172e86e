package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/pkg/metrics"
)

type ProductService struct {
	repo   ports.ProductRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
}

// NewProductService wires the product use cases. idem may be nil, in which
// case Idempotency-Key headers are ignored.
func NewProductService(repo ports.ProductRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, idem: idem, logger: logger}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// CreateProduct creates a new product. If an idempotency key is provided and
// already seen for the same actor, the previously created product is returned
// without side effects.
func (s *ProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*ports.CreateProductResult, error) {
	if s.idem != nil && input.IdempotencyKey != "" {
		if existing := s.replay(ctx, input.Actor, input.IdempotencyKey); existing != nil {
			metrics.IdempotentReplaysTotal.Inc()
			return &ports.CreateProductResult{Product: existing, Replayed: true}, nil
		}
	}

	p := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("actor", input.Actor).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	if s.idem != nil && input.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, input.Actor, input.IdempotencyKey, p.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency store write failed")
		}
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("product_id", p.ID).Str("actor", input.Actor).Msg("product created")
	return &ports.CreateProductResult{Product: p}, nil
}

// replay resolves an idempotency key to the product it created. Store
// failures and keys pointing at deleted products fall through to a fresh
// create.
func (s *ProductService) replay(ctx context.Context, actor, key string) *domain.Product {
	id, ok, err := s.idem.Lookup(ctx, actor, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Debug().Err(err).Str("product_id", id).Msg("idempotent product no longer available")
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("product_id", id).Msg("idempotent replay")
	return p
}

func (s *ProductService) UpdateProduct(ctx context.Context, id, actor string, input ports.ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("product_id", id).Str("actor", actor).Msg("product updated")
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("product_id", id).Str("actor", actor).Msg("product deleted")
	return nil
}

package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

type productRecord struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRecord) TableName() string { return "products" }

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          formatID(r.ID),
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var recs []productRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]*domain.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, pk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	rec := productRecord{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	p.ID = formatID(rec.ID)
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	pk, ok := parseID(p.ID)
	if !ok {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", pk).Updates(map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"updated_at":  now,
	})
	if res.Error != nil {
		return fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	p.UpdatedAt = now
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	pk, ok := parseID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&productRecord{}, pk)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

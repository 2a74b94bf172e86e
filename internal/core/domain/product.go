package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry managed by administrators.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package ports

import "context"

// IdempotencyStore remembers which product a client-supplied key created.
type IdempotencyStore interface {
	// Lookup returns the product id recorded for key, or ok=false.
	Lookup(ctx context.Context, scope, key string) (productID string, ok bool, err error)
	Remember(ctx context.Context, scope, key, productID string) error
}

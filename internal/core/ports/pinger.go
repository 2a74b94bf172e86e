package ports

import "context"

// Pinger is implemented by every backing service a readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

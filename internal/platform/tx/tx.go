package tx

import "context"

// Manager wraps transactional boundaries for multi-adapter operations.
// Calls made inside fn with the provided context join the same transaction.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// Mutator applies one domain change to a freshly loaded order.
// Returning an error aborts the update without writing anything.
type Mutator func(o *order.Order) error

// OrderStore is the single source of truth for order status.
type OrderStore interface {
	// Add inserts a new order. A duplicate id or code is a ConflictError.
	Add(ctx context.Context, o *order.Order) error

	// Get returns an ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByCode looks an order up by its public tracking code.
	GetByCode(ctx context.Context, code string) (*order.Order, error)

	// ConditionalUpdate loads the order, checks that its status is one of expected,
	// runs mutate and writes the result in one statement guarded by the loaded
	// state. If another writer changed the order in between, nothing is written
	// and a ConflictError is returned. Exactly one of N concurrent callers
	// starting from the same state can succeed.
	ConditionalUpdate(ctx context.Context, id kernel.UUID, expected []order.Status, mutate Mutator) (*order.Order, error)
}

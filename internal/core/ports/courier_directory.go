package ports

import (
	"context"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

type CourierDirectory interface {
	Add(ctx context.Context, c *courier.Courier) error

	// Get returns an ObjectNotFoundError for unknown couriers.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// IsEligibleForSelfService reports whether the courier may claim o without a dispatcher.
	IsEligibleForSelfService(ctx context.Context, courierID kernel.UUID, o *order.Order) (bool, error)
}

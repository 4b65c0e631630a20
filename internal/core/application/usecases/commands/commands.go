// Package commands contains business operations that modify order state.
//
// Every handler follows the same shape: validate the constructed command, load
// what it needs, then apply exactly one ports.OrderStore.ConditionalUpdate. A
// Conflict from that update is resolved by re-reading the order: if a previous
// delivery of the same request already produced the target state the handler
// returns success without writing again.
package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// resolveConflict turns a Conflict into a no-op success when reached(current)
// holds. Any other error, or a conflict that did not reach the target, is
// returned unchanged.
func resolveConflict(
	ctx context.Context,
	store ports.OrderStore,
	id kernel.UUID,
	err error,
	reached func(*order.Order) bool,
) (*order.Order, error) {
	if !errors.Is(err, errs.ErrConflict) {
		return nil, err
	}

	current, getErr := store.Get(ctx, id)
	if getErr != nil {
		return nil, err
	}
	if reached(current) {
		return current, nil
	}
	return nil, err
}

// actedBy reports whether actor may see o as its own. A nil actor is a dispatcher.
func actedBy(o *order.Order, actor *kernel.UUID) bool {
	return actor == nil || o.IsDrivenBy(*actor)
}

func validateActor(actor *kernel.UUID) error {
	if actor == nil {
		return nil
	}
	return actor.Validate()
}

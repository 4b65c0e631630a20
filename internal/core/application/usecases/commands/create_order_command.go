package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places an order paid on delivery or by the sender in cash.
// Identity, code and timestamps are assigned by the handler.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customerID, draft)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct {
	customerID kernel.UUID
	draft      order.Draft

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(customerID kernel.UUID, draft order.Draft) (CreateOrderCommand, error) {
	if err := errors.Join(customerID.Validate(), draft.Validate()); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		customerID: customerID,
		draft:      draft,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) Draft() order.Draft {
	return c.draft
}

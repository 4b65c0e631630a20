package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAssignByDispatcherCommandIsNotConstructed = errors.New(
	"AssignByDispatcherCommand must be created via NewAssignByDispatcherCommand constructor",
)

// AssignByDispatcherCommand hands an order to a courier chosen by a dispatcher.
type AssignByDispatcherCommand struct {
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignByDispatcherCommand(orderID, courierID kernel.UUID) (AssignByDispatcherCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate()); err != nil {
		return AssignByDispatcherCommand{}, err
	}
	return AssignByDispatcherCommand{
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignByDispatcherCommand) Validate() error {
	return c.guard.Validate(ErrAssignByDispatcherCommandIsNotConstructed)
}

func (c AssignByDispatcherCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignByDispatcherCommand) CourierID() kernel.UUID {
	return c.courierID
}

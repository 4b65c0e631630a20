package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAssignToSelfCommandIsNotConstructed = errors.New(
	"AssignToSelfCommand must be created via NewAssignToSelfCommand constructor",
)

// AssignToSelfCommand is a courier claiming an order without a dispatcher.
type AssignToSelfCommand struct {
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignToSelfCommand(orderID, courierID kernel.UUID) (AssignToSelfCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate()); err != nil {
		return AssignToSelfCommand{}, err
	}
	return AssignToSelfCommand{
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignToSelfCommand) Validate() error {
	return c.guard.Validate(ErrAssignToSelfCommandIsNotConstructed)
}

func (c AssignToSelfCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignToSelfCommand) CourierID() kernel.UUID {
	return c.courierID
}

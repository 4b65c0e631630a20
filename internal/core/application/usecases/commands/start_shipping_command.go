package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrStartShippingCommandIsNotConstructed = errors.New(
	"StartShippingCommand must be created via NewStartShippingCommand constructor",
)

// StartShippingCommand records that the assigned courier picked the parcel up.
// A nil courierID means a dispatcher acts on the courier's behalf.
type StartShippingCommand struct {
	orderID   kernel.UUID
	courierID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartShippingCommand(orderID kernel.UUID, courierID *kernel.UUID) (StartShippingCommand, error) {
	if err := errors.Join(orderID.Validate(), validateActor(courierID)); err != nil {
		return StartShippingCommand{}, err
	}
	return StartShippingCommand{
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c StartShippingCommand) Validate() error {
	return c.guard.Validate(ErrStartShippingCommandIsNotConstructed)
}

func (c StartShippingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c StartShippingCommand) CourierID() *kernel.UUID {
	return c.courierID
}

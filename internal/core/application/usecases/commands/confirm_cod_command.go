package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrConfirmCodCommandIsNotConstructed = errors.New(
	"ConfirmCodCommand must be created via NewConfirmCodCommand constructor",
)

// ConfirmCodCommand is a dispatcher settling COD by hand, typically for
// sender-paid orders whose cash was collected outside the delivery.
type ConfirmCodCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmCodCommand(orderID kernel.UUID) (ConfirmCodCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmCodCommand{}, err
	}
	return ConfirmCodCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmCodCommand) Validate() error {
	return c.guard.Validate(ErrConfirmCodCommandIsNotConstructed)
}

func (c ConfirmCodCommand) OrderID() kernel.UUID {
	return c.orderID
}

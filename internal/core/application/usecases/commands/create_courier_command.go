package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrCreateCourierCommandIsNotConstructed = errors.New(
	"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
)

// CreateCourierCommand registers a courier. The ID is generated on construction.
// A zero maxActiveOrders selects courier.DefaultMaxActiveOrders.
type CreateCourierCommand struct {
	courierID       kernel.UUID
	name            string
	phone           string
	maxActiveOrders int

	guard guard.ConstructorGuard
}

func NewCreateCourierCommand(name, phone string, maxActiveOrders int) (CreateCourierCommand, error) {
	if maxActiveOrders == 0 {
		maxActiveOrders = courier.DefaultMaxActiveOrders
	}

	// Courier rules are the single source of field validation.
	id := kernel.NewUUID()
	if _, err := courier.RestoreCourier(id, name, phone, true, maxActiveOrders); err != nil {
		return CreateCourierCommand{}, err
	}

	return CreateCourierCommand{
		courierID:       id,
		name:            name,
		phone:           phone,
		maxActiveOrders: maxActiveOrders,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c CreateCourierCommand) Name() string {
	return c.name
}

func (c CreateCourierCommand) Phone() string {
	return c.phone
}

func (c CreateCourierCommand) MaxActiveOrders() int {
	return c.maxActiveOrders
}

package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrMaterializeStagedOrderCommandIsNotConstructed = errors.New(
	"MaterializeStagedOrderCommand must be created via NewMaterializeStagedOrderCommand constructor",
)

// MaterializeStagedOrderCommand turns a staged draft into an order owned by
// the calling customer. The customer never comes from the staged payload.
type MaterializeStagedOrderCommand struct {
	token      string
	customerID kernel.UUID
	paid       *kernel.Money

	guard guard.ConstructorGuard
}

func NewMaterializeStagedOrderCommand(token string, customerID kernel.UUID) (MaterializeStagedOrderCommand, error) {
	var tokenErr error
	if token == "" {
		tokenErr = errs.NewValueIsRequiredError("token")
	}
	if err := errors.Join(tokenErr, customerID.Validate()); err != nil {
		return MaterializeStagedOrderCommand{}, err
	}
	return MaterializeStagedOrderCommand{
		token:      token,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// WithPaidAmount makes the handler check the gateway-reported amount against
// the staged one.
func (c MaterializeStagedOrderCommand) WithPaidAmount(amount kernel.Money) MaterializeStagedOrderCommand {
	c.paid = &amount
	return c
}

func (c MaterializeStagedOrderCommand) Validate() error {
	return c.guard.Validate(ErrMaterializeStagedOrderCommandIsNotConstructed)
}

func (c MaterializeStagedOrderCommand) Token() string {
	return c.token
}

func (c MaterializeStagedOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c MaterializeStagedOrderCommand) PaidAmount() *kernel.Money {
	return c.paid
}

package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrBeginStagedPaymentCommandIsNotConstructed = errors.New(
	"BeginStagedPaymentCommand must be created via NewBeginStagedPaymentCommand constructor",
)

// BeginStagedPaymentCommand starts a payment for an order that does not exist
// yet. The draft is kept by the staging store until the customer returns.
type BeginStagedPaymentCommand struct {
	customerID kernel.UUID
	draft      order.Draft

	guard guard.ConstructorGuard
}

func NewBeginStagedPaymentCommand(customerID kernel.UUID, draft order.Draft) (BeginStagedPaymentCommand, error) {
	if err := errors.Join(customerID.Validate(), draft.Validate()); err != nil {
		return BeginStagedPaymentCommand{}, err
	}
	return BeginStagedPaymentCommand{
		customerID: customerID,
		draft:      draft,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c BeginStagedPaymentCommand) Validate() error {
	return c.guard.Validate(ErrBeginStagedPaymentCommandIsNotConstructed)
}

func (c BeginStagedPaymentCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c BeginStagedPaymentCommand) Draft() order.Draft {
	return c.draft
}

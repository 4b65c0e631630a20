package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrBeginRedirectPaymentCommandIsNotConstructed = errors.New(
	"BeginRedirectPaymentCommand must be created via NewBeginRedirectPaymentCommand constructor",
)

// BeginRedirectPaymentCommand starts online prepayment of an existing order's
// shipping fee through the redirect gateway.
type BeginRedirectPaymentCommand struct {
	orderID    kernel.UUID
	customerID kernel.UUID
	clientIP   string

	guard guard.ConstructorGuard
}

func NewBeginRedirectPaymentCommand(
	orderID, customerID kernel.UUID,
	clientIP string,
) (BeginRedirectPaymentCommand, error) {
	if err := errors.Join(orderID.Validate(), customerID.Validate()); err != nil {
		return BeginRedirectPaymentCommand{}, err
	}
	return BeginRedirectPaymentCommand{
		orderID:    orderID,
		customerID: customerID,
		clientIP:   clientIP,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c BeginRedirectPaymentCommand) Validate() error {
	return c.guard.Validate(ErrBeginRedirectPaymentCommandIsNotConstructed)
}

func (c BeginRedirectPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c BeginRedirectPaymentCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c BeginRedirectPaymentCommand) ClientIP() string {
	return c.clientIP
}

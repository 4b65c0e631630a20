package commands

import (
	"errors"
	"net/url"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrHandleStagedCallbackCommandIsNotConstructed = errors.New(
	"HandleStagedCallbackCommand must be created via NewHandleStagedCallbackCommand constructor",
)

// HandleStagedCallbackCommand is the customer returning from the staged
// gateway. customerID is taken from the caller's session.
type HandleStagedCallbackCommand struct {
	params     url.Values
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewHandleStagedCallbackCommand(params url.Values, customerID kernel.UUID) (HandleStagedCallbackCommand, error) {
	if err := customerID.Validate(); err != nil {
		return HandleStagedCallbackCommand{}, err
	}
	copied := make(url.Values, len(params))
	for k, v := range params {
		copied[k] = append([]string(nil), v...)
	}
	return HandleStagedCallbackCommand{
		params:     copied,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c HandleStagedCallbackCommand) Validate() error {
	return c.guard.Validate(ErrHandleStagedCallbackCommandIsNotConstructed)
}

func (c HandleStagedCallbackCommand) Params() url.Values {
	return c.params
}

func (c HandleStagedCallbackCommand) CustomerID() kernel.UUID {
	return c.customerID
}

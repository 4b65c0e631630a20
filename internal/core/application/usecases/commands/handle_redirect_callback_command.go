package commands

import (
	"errors"
	"net/url"

	"orderflow/internal/pkg/guard"
)

var ErrHandleRedirectCallbackCommandIsNotConstructed = errors.New(
	"HandleRedirectCallbackCommand must be created via NewHandleRedirectCallbackCommand constructor",
)

// HandleRedirectCallbackCommand carries the raw parameters of a redirect
// gateway return or IPN call.
type HandleRedirectCallbackCommand struct {
	params url.Values

	guard guard.ConstructorGuard
}

func NewHandleRedirectCallbackCommand(params url.Values) HandleRedirectCallbackCommand {
	copied := make(url.Values, len(params))
	for k, v := range params {
		copied[k] = append([]string(nil), v...)
	}
	return HandleRedirectCallbackCommand{params: copied, guard: guard.NewConstructorGuard()}
}

func (c HandleRedirectCallbackCommand) Validate() error {
	return c.guard.Validate(ErrHandleRedirectCallbackCommandIsNotConstructed)
}

func (c HandleRedirectCallbackCommand) Params() url.Values {
	return c.params
}

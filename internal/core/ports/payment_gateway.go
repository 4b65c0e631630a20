package ports

import (
	"context"
	"net/url"

	"orderflow/internal/core/domain/model/payment"
)

// PaymentGateway is the outbound half shared by both gateway variants.
type PaymentGateway interface {
	Gateway() payment.Gateway

	// BuildOutboundRequest returns the URL the customer is redirected to.
	BuildOutboundRequest(ctx context.Context, intent payment.Intent) (string, error)
}

// RedirectGateway signs outbound URLs and verifies signed callbacks.
type RedirectGateway interface {
	PaymentGateway

	// VerifyInboundCallback returns an InvalidSignatureError when the signature
	// does not match. Only a nil error means the result may change order state.
	VerifyInboundCallback(params url.Values) (payment.Result, error)
}

// StagedGateway stages the order payload and reports unsigned outcomes.
type StagedGateway interface {
	PaymentGateway

	// InterpretCallback reports the payment outcome only. It never creates orders.
	InterpretCallback(params url.Values) (payment.Result, error)
}

// Package momo implements the session-staged payment gateway. The order does
// not exist while the customer pays: the draft is staged under an opaque token
// and materialized after the customer returns.
package momo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	ParamOrderID    = "orderId"
	ParamAmount     = "amount"
	ParamOrderInfo  = "orderInfo"
	ParamExtraData  = "extraData"
	ParamResultCode = "resultCode"
	ParamMessage    = "message"
	ParamTransID    = "transId"

	successCode      = "0"
	simulatedMessage = "Simulated MoMo payment succeeded"

	DefaultTTL = 15 * time.Minute
)

var _ ports.StagedGateway = (*Gateway)(nil)

type Config struct {
	// Endpoint is the gateway payment page.
	Endpoint string
	// ReturnURL is this service's return endpoint.
	ReturnURL string
	// Simulate sends the customer straight back to ReturnURL with a successful result.
	Simulate bool
	TTL      time.Duration
}

func (c Config) Validate() error {
	var all []error
	if c.ReturnURL == "" {
		all = append(all, errs.NewValueIsRequiredError("momo.returnURL"))
	}
	if !c.Simulate && c.Endpoint == "" {
		all = append(all, errs.NewValueIsRequiredError("momo.endpoint"))
	}
	if c.TTL < 0 {
		all = append(all, errs.NewValueIsInvalidErrorWithCause("momo.ttl", errors.New("must not be negative")))
	}
	return errors.Join(all...)
}

type Gateway struct {
	cfg     Config
	staging ports.StagingStore
}

func NewGateway(cfg Config, staging ports.StagingStore) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	return &Gateway{cfg: cfg, staging: staging}, nil
}

func (g *Gateway) Gateway() payment.Gateway {
	return payment.MoMo
}

// TTL is how long a staged draft survives without a callback.
func (g *Gateway) TTL() time.Duration {
	return g.cfg.TTL
}

// BuildOutboundRequest stages the intent under a fresh token and returns the
// payment URL. The URL carries only the token and the amount.
func (g *Gateway) BuildOutboundRequest(ctx context.Context, intent payment.Intent) (string, error) {
	if err := intent.Validate(); err != nil {
		return "", err
	}
	if intent.Draft == nil {
		return "", errs.NewValueIsRequiredError("draft")
	}

	token := uuid.NewString()
	intent.Reference = token
	if err := g.staging.Stage(ctx, token, intent, g.cfg.TTL); err != nil {
		return "", fmt.Errorf("stage momo intent: %w", err)
	}

	params := url.Values{
		ParamOrderID:   {token},
		ParamAmount:    {intent.Amount.String()},
		ParamOrderInfo: {intent.Description},
		ParamExtraData: {""},
	}

	base := g.cfg.Endpoint
	if g.cfg.Simulate {
		base = g.cfg.ReturnURL
		params.Set(ParamResultCode, successCode)
		params.Set(ParamMessage, simulatedMessage)
	}

	return base + "?" + params.Encode(), nil
}

// InterpretCallback reports the payment outcome. It never touches the staging store.
func (g *Gateway) InterpretCallback(params url.Values) (payment.Result, error) {
	token := params.Get(ParamOrderID)
	if token == "" {
		return payment.Result{}, errs.NewValueIsRequiredError(ParamOrderID)
	}

	var amount kernel.Money
	if raw := params.Get(ParamAmount); raw != "" {
		parsed, err := kernel.MoneyFromString(raw)
		if err != nil {
			return payment.Result{}, err
		}
		amount = parsed
	}

	code := params.Get(ParamResultCode)
	return payment.Result{
		Gateway:       payment.MoMo,
		Reference:     token,
		Success:       code == successCode,
		ResultCode:    code,
		Message:       params.Get(ParamMessage),
		TransactionID: params.Get(ParamTransID),
		Amount:        amount,
	}, nil
}

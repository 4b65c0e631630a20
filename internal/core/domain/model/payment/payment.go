package payment

import (
	"errors"
	"net/url"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// Gateway identifies an external payment provider.
type Gateway string

const (
	// VNPay signs redirect URLs and callbacks with a shared secret.
	VNPay Gateway = "vnpay"
	// MoMo stages the order payload and creates the order after payment.
	MoMo Gateway = "momo"
)

func (g Gateway) String() string {
	return string(g)
}

// Intent identifies a pending gateway transaction.
//
// For redirect payments OrderID is set and Draft is nil. For staged payments the
// order does not exist yet: OrderID is nil and Draft carries the full payload.
type Intent struct {
	Gateway     Gateway      `json:"gateway"`
	Reference   string       `json:"reference"`
	Amount      kernel.Money `json:"amount"`
	Description string       `json:"description,omitempty"`
	ClientIP    string       `json:"clientIp,omitempty"`
	OrderID     *kernel.UUID `json:"orderId,omitempty"`
	Draft       *order.Draft `json:"draft,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Validate checks the fields every gateway needs.
func (i Intent) Validate() error {
	var all []error
	if i.Gateway != VNPay && i.Gateway != MoMo {
		all = append(all, errs.NewValueIsInvalidError("gateway"))
	}
	if !i.Amount.IsPositive() {
		all = append(all, errs.NewValueIsInvalidErrorWithCause("amount", errors.New("must be greater than zero")))
	}
	if i.OrderID == nil && i.Draft == nil {
		all = append(all, errs.NewValueIsRequiredError("orderId or draft"))
	}
	if i.Draft != nil {
		all = append(all, i.Draft.Validate())
	}
	return errors.Join(all...)
}

// Callback is an inbound gateway notification before interpretation.
// It is never persisted.
type Callback struct {
	Gateway   Gateway
	Params    url.Values
	Signature string
	Verified  bool
}

// Result is the interpreted outcome of a callback.
type Result struct {
	Gateway Gateway
	// Reference is the transaction reference sent out (redirect txn ref or staging token).
	Reference string
	// OrderID is recovered from the reference for redirect payments.
	OrderID       *kernel.UUID
	Success       bool
	ResultCode    string
	Message       string
	TransactionID string
	Amount        kernel.Money
}

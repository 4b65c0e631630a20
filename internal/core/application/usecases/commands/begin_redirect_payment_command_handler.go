package commands

import (
	"context"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

type BeginRedirectPaymentCommandHandler struct {
	store   ports.OrderStore
	gateway ports.RedirectGateway
	clock   clock.Clock
	logger  *slog.Logger
}

func NewBeginRedirectPaymentCommandHandler(
	store ports.OrderStore,
	gateway ports.RedirectGateway,
	c clock.Clock,
	logger *slog.Logger,
) BeginRedirectPaymentCommandHandler {
	return BeginRedirectPaymentCommandHandler{
		store:   store,
		gateway: gateway,
		clock:   c,
		logger:  logger.With("component", "begin_redirect_payment", "gateway", gateway.Gateway().String()),
	}
}

// Handle returns the gateway URL the customer pays the shipping fee at.
// Only the owning customer may pay, and only while the order is pending.
func (h BeginRedirectPaymentCommandHandler) Handle(ctx context.Context, cmd BeginRedirectPaymentCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	o, err := h.store.Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if !o.CustomerID().IsEqual(cmd.CustomerID()) {
		return "", errs.NewObjectNotFoundError("order", cmd.OrderID().String())
	}
	if o.Status() != order.Pending {
		return "", errs.NewConflictErrorWithCause("order", "cannot be prepaid", fmt.Errorf("status is %s", o.Status()))
	}

	id := o.ID()
	redirect, err := h.gateway.BuildOutboundRequest(ctx, payment.Intent{
		Gateway:     h.gateway.Gateway(),
		Amount:      o.ShipFee(),
		Description: fmt.Sprintf("Thanh toan don hang %s", o.Code()),
		ClientIP:    cmd.ClientIP(),
		OrderID:     &id,
		CreatedAt:   h.clock.Now(),
	})
	if err != nil {
		return "", err
	}

	h.logger.InfoContext(ctx, "Redirect payment started", "order_id", id.String(), "amount", o.ShipFee().String())
	return redirect, nil
}

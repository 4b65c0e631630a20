package commands

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
)

type BeginStagedPaymentCommandHandler struct {
	gateway ports.StagedGateway
	clock   clock.Clock
	logger  *slog.Logger
}

func NewBeginStagedPaymentCommandHandler(
	gateway ports.StagedGateway,
	c clock.Clock,
	logger *slog.Logger,
) BeginStagedPaymentCommandHandler {
	return BeginStagedPaymentCommandHandler{
		gateway: gateway,
		clock:   c,
		logger:  logger.With("component", "begin_staged_payment", "gateway", gateway.Gateway().String()),
	}
}

// Handle stages the draft and returns the payment URL. The customer pays the
// shipping fee; the staged copy is the only record until materialization.
func (h BeginStagedPaymentCommandHandler) Handle(ctx context.Context, cmd BeginStagedPaymentCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	draft := cmd.Draft()
	redirect, err := h.gateway.BuildOutboundRequest(ctx, payment.Intent{
		Gateway:     h.gateway.Gateway(),
		Amount:      draft.ShipFee,
		Description: "Thanh toan phi giao hang",
		Draft:       &draft,
		CreatedAt:   h.clock.Now(),
	})
	if err != nil {
		return "", err
	}

	h.logger.InfoContext(ctx, "Staged payment started",
		"customer_id", cmd.CustomerID().String(),
		"amount", draft.ShipFee.String(),
	)
	return redirect, nil
}

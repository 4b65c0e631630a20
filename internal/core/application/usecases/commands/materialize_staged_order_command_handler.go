package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

// restageTTL keeps a re-staged intent alive long enough for one retry.
const restageTTL = 5 * time.Minute

// MaterializeStagedOrderCommandHandler creates the order behind a staged payment.
//
// Take on the staging store is atomic, so a token produces at most one order.
// Every later call, and any call after the intent expired, fails with an
// ExpiredIntentError.
type MaterializeStagedOrderCommandHandler struct {
	staging ports.StagingStore
	store   ports.OrderStore
	sink    ports.NotificationSink
	clock   clock.Clock
	logger  *slog.Logger
}

func NewMaterializeStagedOrderCommandHandler(
	staging ports.StagingStore,
	store ports.OrderStore,
	sink ports.NotificationSink,
	c clock.Clock,
	logger *slog.Logger,
) MaterializeStagedOrderCommandHandler {
	return MaterializeStagedOrderCommandHandler{
		staging: staging,
		store:   store,
		sink:    sink,
		clock:   c,
		logger:  logger.With("component", "materialize_staged_order"),
	}
}

func (h MaterializeStagedOrderCommandHandler) Handle(
	ctx context.Context,
	cmd MaterializeStagedOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	intent, err := h.staging.Take(ctx, cmd.Token())
	if err != nil {
		return nil, err
	}
	if intent.Draft == nil {
		return nil, errs.NewValueIsRequiredError("draft")
	}
	if paid := cmd.PaidAmount(); paid != nil && !paid.Equal(intent.Amount) {
		h.logger.WarnContext(ctx, "Paid amount does not match staged amount",
			"token", cmd.Token(),
			"paid", paid.String(),
			"staged", intent.Amount.String(),
		)
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("paid %s, staged %s", paid.String(), intent.Amount.String()),
		)
	}

	o, err := createOrder(ctx, h.store, h.clock, cmd.CustomerID(), *intent.Draft)
	if err != nil {
		if stageErr := h.staging.Stage(ctx, cmd.Token(), intent, restageTTL); stageErr != nil {
			return nil, errors.Join(err, fmt.Errorf("restage intent: %w", stageErr))
		}
		return nil, err
	}

	h.logger.InfoContext(ctx, "Staged order materialized",
		"order_id", o.ID().String(),
		"code", o.Code(),
		"token", cmd.Token(),
	)
	h.sink.Notify(ctx, o.ID(), fmt.Sprintf("order %s created after online payment", o.Code()))
	return o, nil
}

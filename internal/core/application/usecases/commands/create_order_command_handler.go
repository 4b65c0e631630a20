package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

// codeAttempts bounds retries when a generated public code is already taken.
const codeAttempts = 3

// CreateOrderCommandHandler persists new pending orders.
type CreateOrderCommandHandler struct {
	store  ports.OrderStore
	sink   ports.NotificationSink
	clock  clock.Clock
	logger *slog.Logger
}

func NewCreateOrderCommandHandler(
	store ports.OrderStore,
	sink ports.NotificationSink,
	c clock.Clock,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		store:  store,
		sink:   sink,
		clock:  c,
		logger: logger.With("component", "create_order"),
	}
}

// Handle creates the order in pending status. A collision on the generated code
// is retried with a fresh code.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := createOrder(ctx, h.store, h.clock, cmd.CustomerID(), cmd.Draft())
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "Order created", "order_id", o.ID().String(), "code", o.Code())
	h.sink.Notify(ctx, o.ID(), fmt.Sprintf("order %s created", o.Code()))
	return o, nil
}

// createOrder is shared with staged-payment materialization.
func createOrder(
	ctx context.Context,
	store ports.OrderStore,
	c clock.Clock,
	customerID kernel.UUID,
	draft order.Draft,
) (*order.Order, error) {
	var err error
	for range codeAttempts {
		now := c.Now()

		var o *order.Order
		o, err = order.NewOrder(kernel.NewUUID(), order.GenerateCode(now), customerID, draft, now)
		if err != nil {
			return nil, err
		}

		err = store.Add(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, errs.ErrConflict) {
			return nil, err
		}
	}
	return nil, err
}

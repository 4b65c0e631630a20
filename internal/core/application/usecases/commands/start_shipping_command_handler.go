package commands

import (
	"context"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/metrics"
)

type StartShippingCommandHandler struct {
	store   ports.OrderStore
	sink    ports.NotificationSink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewStartShippingCommandHandler(
	store ports.OrderStore,
	sink ports.NotificationSink,
	m *metrics.Metrics,
	logger *slog.Logger,
) StartShippingCommandHandler {
	return StartShippingCommandHandler{
		store:   store,
		sink:    sink,
		metrics: m,
		logger:  logger.With("component", "start_shipping"),
	}
}

// Handle moves an assigned order to shipping. Repeating it is a no-op.
func (h StartShippingCommandHandler) Handle(ctx context.Context, cmd StartShippingCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	shipping := func(o *order.Order) bool {
		return o.Status() == order.Shipping && actedBy(o, cmd.CourierID())
	}

	updated, err := h.store.ConditionalUpdate(ctx, cmd.OrderID(), []order.Status{order.Assigned}, func(o *order.Order) error {
		return o.StartShipping(cmd.CourierID())
	})
	if err != nil {
		return resolveConflict(ctx, h.store, cmd.OrderID(), err, shipping)
	}

	h.logger.InfoContext(ctx, "Order picked up", "order_id", updated.ID().String())
	h.metrics.IncTransition(order.Shipping.String())
	h.sink.Notify(ctx, updated.ID(), fmt.Sprintf("order %s is on its way", updated.Code()))
	return updated, nil
}

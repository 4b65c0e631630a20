package commands

import (
	"context"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/metrics"
)

type RecordFailedCommandHandler struct {
	store   ports.OrderStore
	sink    ports.NotificationSink
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRecordFailedCommandHandler(
	store ports.OrderStore,
	sink ports.NotificationSink,
	c clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) RecordFailedCommandHandler {
	return RecordFailedCommandHandler{
		store:   store,
		sink:    sink,
		clock:   c,
		metrics: m,
		logger:  logger.With("component", "record_failed"),
	}
}

// Handle fails an order that has a driver. Repeating it is a no-op; the first
// reason and failedAt are kept.
func (h RecordFailedCommandHandler) Handle(ctx context.Context, cmd RecordFailedCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	failed := func(o *order.Order) bool {
		return o.Status() == order.Failed && o.Driver() != nil && actedBy(o, cmd.CourierID())
	}

	updated, err := h.store.ConditionalUpdate(
		ctx,
		cmd.OrderID(),
		[]order.Status{order.Pending, order.Assigned, order.Shipping},
		func(o *order.Order) error {
			return o.MarkFailed(cmd.CourierID(), cmd.Reason(), h.clock.Now())
		},
	)
	if err != nil {
		return resolveConflict(ctx, h.store, cmd.OrderID(), err, failed)
	}

	h.logger.InfoContext(ctx, "Order failed", "order_id", updated.ID().String(), "reason", cmd.Reason())
	h.metrics.IncTransition(order.Failed.String())
	h.sink.Notify(ctx, updated.ID(), fmt.Sprintf("order %s failed: %s", updated.Code(), cmd.Reason()))
	return updated, nil
}

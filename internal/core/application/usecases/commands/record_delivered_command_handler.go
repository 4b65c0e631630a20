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

// RecordDeliveredCommandHandler marks orders done and settles receiver-paid COD
// in the same write.
type RecordDeliveredCommandHandler struct {
	store   ports.OrderStore
	sink    ports.NotificationSink
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRecordDeliveredCommandHandler(
	store ports.OrderStore,
	sink ports.NotificationSink,
	c clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) RecordDeliveredCommandHandler {
	return RecordDeliveredCommandHandler{
		store:   store,
		sink:    sink,
		clock:   c,
		metrics: m,
		logger:  logger.With("component", "record_delivered"),
	}
}

// Handle records the delivery. A second call on a done order returns it
// unchanged: deliveredAt, proof and COD fields keep their first values.
func (h RecordDeliveredCommandHandler) Handle(ctx context.Context, cmd RecordDeliveredCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	delivered := func(o *order.Order) bool {
		return o.Status() == order.Done && actedBy(o, cmd.CourierID())
	}

	updated, err := h.store.ConditionalUpdate(
		ctx,
		cmd.OrderID(),
		[]order.Status{order.Assigned, order.Shipping},
		func(o *order.Order) error {
			return o.MarkDelivered(cmd.CourierID(), cmd.ProofRef(), cmd.Note(), h.clock.Now())
		},
	)
	if err != nil {
		return resolveConflict(ctx, h.store, cmd.OrderID(), err, delivered)
	}

	h.logger.InfoContext(ctx, "Order delivered",
		"order_id", updated.ID().String(),
		"cod_paid", updated.IsCodPaid(),
	)
	h.metrics.IncTransition(order.Done.String())
	h.sink.Notify(ctx, updated.ID(), fmt.Sprintf("order %s delivered", updated.Code()))
	return updated, nil
}

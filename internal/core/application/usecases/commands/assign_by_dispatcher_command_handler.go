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

// AssignByDispatcherCommandHandler assigns with the same atomicity as
// self-service but without the eligibility rule. Express orders go through here.
type AssignByDispatcherCommandHandler struct {
	store     ports.OrderStore
	directory ports.CourierDirectory
	sink      ports.NotificationSink
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewAssignByDispatcherCommandHandler(
	store ports.OrderStore,
	directory ports.CourierDirectory,
	sink ports.NotificationSink,
	c clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) AssignByDispatcherCommandHandler {
	return AssignByDispatcherCommandHandler{
		store:     store,
		directory: directory,
		sink:      sink,
		clock:     c,
		metrics:   m,
		logger:    logger.With("component", "assign_by_dispatcher"),
	}
}

func (h AssignByDispatcherCommandHandler) Handle(
	ctx context.Context,
	cmd AssignByDispatcherCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.handle(ctx, cmd)
	h.metrics.IncAssignment(modeDispatcher, assignmentResult(err))
	return o, err
}

func (h AssignByDispatcherCommandHandler) handle(
	ctx context.Context,
	cmd AssignByDispatcherCommand,
) (*order.Order, error) {
	courierID := cmd.CourierID()
	if _, err := h.directory.Get(ctx, courierID); err != nil {
		return nil, err
	}

	assignedTo := func(o *order.Order) bool {
		return o.Status() == order.Assigned && o.IsDrivenBy(courierID)
	}

	updated, err := h.store.ConditionalUpdate(ctx, cmd.OrderID(), claimableStatuses, func(o *order.Order) error {
		return o.AssignTo(courierID, h.clock.Now())
	})
	if err != nil {
		return resolveConflict(ctx, h.store, cmd.OrderID(), err, assignedTo)
	}

	h.logger.InfoContext(ctx, "Order assigned by dispatcher",
		"order_id", updated.ID().String(),
		"courier_id", courierID.String(),
	)
	h.metrics.IncTransition(order.Assigned.String())
	h.sink.Notify(ctx, updated.ID(), fmt.Sprintf("order %s assigned to courier %s", updated.Code(), courierID))
	return updated, nil
}

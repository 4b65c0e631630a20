package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

const (
	modeSelf       = "self"
	modeDispatcher = "dispatcher"

	resultAssigned   = "assigned"
	resultConflict   = "conflict"
	resultIneligible = "ineligible"
	resultNotFound   = "not_found"
	resultError      = "error"
)

var claimableStatuses = []order.Status{order.Pending, order.GatewayPaid}

// ErrCourierIsNotEligible is returned when SelfServicePolicy refuses the claim.
var ErrCourierIsNotEligible = errs.NewConflictError("courier", "is not eligible to claim this order")

// AssignToSelfCommandHandler lets an eligible courier claim an unassigned order.
//
// Of N couriers claiming the same order concurrently exactly one succeeds; the
// others receive a ConflictError. A claim is idempotent per courier: a courier
// repeating its own claim, sequentially or concurrently, gets the order back
// unchanged and no error. Only the request that wins the conditional update
// records the transition and notifies.
type AssignToSelfCommandHandler struct {
	store     ports.OrderStore
	directory ports.CourierDirectory
	sink      ports.NotificationSink
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewAssignToSelfCommandHandler(
	store ports.OrderStore,
	directory ports.CourierDirectory,
	sink ports.NotificationSink,
	c clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) AssignToSelfCommandHandler {
	return AssignToSelfCommandHandler{
		store:     store,
		directory: directory,
		sink:      sink,
		clock:     c,
		metrics:   m,
		logger:    logger.With("component", "assign_to_self"),
	}
}

func (h AssignToSelfCommandHandler) Handle(ctx context.Context, cmd AssignToSelfCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.handle(ctx, cmd)
	h.metrics.IncAssignment(modeSelf, assignmentResult(err))
	return o, err
}

func (h AssignToSelfCommandHandler) handle(ctx context.Context, cmd AssignToSelfCommand) (*order.Order, error) {
	courierID := cmd.CourierID()
	claimedBy := func(o *order.Order) bool {
		return o.Status() == order.Assigned && o.IsDrivenBy(courierID)
	}

	o, err := h.store.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if claimedBy(o) {
		return o, nil
	}
	if o.Driver() != nil {
		return nil, errs.NewConflictError("order", "is already assigned")
	}

	eligible, err := h.directory.IsEligibleForSelfService(ctx, courierID, o)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrCourierIsNotEligible
	}

	updated, err := h.store.ConditionalUpdate(ctx, o.ID(), claimableStatuses, func(o *order.Order) error {
		return o.AssignTo(courierID, h.clock.Now())
	})
	if err != nil {
		return resolveConflict(ctx, h.store, o.ID(), err, claimedBy)
	}

	h.logger.InfoContext(ctx, "Order claimed", "order_id", updated.ID().String(), "courier_id", courierID.String())
	h.metrics.IncTransition(order.Assigned.String())
	h.sink.Notify(ctx, updated.ID(), fmt.Sprintf("order %s assigned to courier %s", updated.Code(), courierID))
	return updated, nil
}

func assignmentResult(err error) string {
	switch {
	case err == nil:
		return resultAssigned
	case errors.Is(err, ErrCourierIsNotEligible):
		return resultIneligible
	case errors.Is(err, errs.ErrConflict):
		return resultConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return resultNotFound
	default:
		return resultError
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// HandleRedirectCallbackCommandHandler reconciles signed redirect callbacks
// with order state.
//
// Callbacks arrive at least once, possibly duplicated and out of order. A
// success moves a pending order to gateway_paid. A decline fails any pending,
// assigned or shipping order. A callback that finds the order already in its
// target state is a duplicate; one that finds any other state is ignored and
// logged, so a late callback never overrides a delivery outcome or a decline
// a recorded payment.
type HandleRedirectCallbackCommandHandler struct {
	store   ports.OrderStore
	gateway ports.RedirectGateway
	sink    ports.NotificationSink
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandleRedirectCallbackCommandHandler(
	store ports.OrderStore,
	gateway ports.RedirectGateway,
	sink ports.NotificationSink,
	c clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) HandleRedirectCallbackCommandHandler {
	return HandleRedirectCallbackCommandHandler{
		store:   store,
		gateway: gateway,
		sink:    sink,
		clock:   c,
		metrics: m,
		logger:  logger.With("component", "redirect_callback", "gateway", gateway.Gateway().String()),
	}
}

// Handle returns an error only for infrastructure failures. Every verification
// or reconciliation problem is reported through the outcome.
func (h HandleRedirectCallbackCommandHandler) Handle(
	ctx context.Context,
	cmd HandleRedirectCallbackCommand,
) (CallbackOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	outcome, err := h.handle(ctx, cmd)
	if err == nil {
		h.metrics.IncCallback(h.gateway.Gateway().String(), outcome.String())
	}
	return outcome, err
}

func (h HandleRedirectCallbackCommandHandler) handle(
	ctx context.Context,
	cmd HandleRedirectCallbackCommand,
) (CallbackOutcome, error) {
	res, err := h.gateway.VerifyInboundCallback(cmd.Params())
	if err != nil {
		if errors.Is(err, errs.ErrInvalidSignature) {
			h.logger.WarnContext(ctx, "Dropped callback with invalid signature", "error", err)
		} else {
			h.logger.WarnContext(ctx, "Dropped malformed callback", "error", err)
		}
		return OutcomeRejected, nil
	}
	if res.OrderID == nil {
		h.logger.WarnContext(ctx, "Dropped callback without order reference", "txn_ref", res.Reference)
		return OutcomeRejected, nil
	}

	log := h.logger.With(
		"order_id", res.OrderID.String(),
		"txn_ref", res.Reference,
		"result_code", res.ResultCode,
	)

	o, err := h.store.Get(ctx, *res.OrderID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			log.WarnContext(ctx, "Callback for unknown order")
			return OutcomeUnknownOrder, nil
		}
		return "", err
	}

	target := order.Failed
	if res.Success {
		target = order.GatewayPaid
		if !res.Amount.Equal(o.ShipFee()) {
			log.WarnContext(ctx, "Callback amount does not match the order",
				"paid", res.Amount.String(),
				"expected", o.ShipFee().String(),
			)
			return OutcomeAmountMismatch, nil
		}
	}
	expected := reconcilableStatuses(res)

	if outcome, settled := classify(o, target, expected); settled {
		if outcome == OutcomeIgnored {
			log.WarnContext(ctx, "Callback for an order that already moved on", "status", o.Status().String())
		}
		return outcome, nil
	}

	updated, err := h.store.ConditionalUpdate(ctx, o.ID(), expected, h.mutator(res))
	if err != nil {
		if !errors.Is(err, errs.ErrConflict) {
			return "", err
		}
		current, getErr := h.store.Get(ctx, o.ID())
		if getErr != nil {
			return "", getErr
		}
		outcome, settled := classify(current, target, expected)
		if !settled {
			return "", err
		}
		return outcome, nil
	}

	log.InfoContext(ctx, "Payment callback applied", "status", updated.Status().String())
	h.metrics.IncTransition(updated.Status().String())
	h.sink.Notify(ctx, updated.ID(), paymentMessage(updated))
	return OutcomeApplied, nil
}

func (h HandleRedirectCallbackCommandHandler) mutator(res payment.Result) ports.Mutator {
	return func(o *order.Order) error {
		if !res.Success {
			if o.PaidAt() != nil {
				return errs.NewConflictError("order", "is already paid")
			}
			return o.MarkPaymentFailed(res.ResultCode, h.clock.Now())
		}
		ref := res.TransactionID
		if ref == "" {
			ref = res.Reference
		}
		return o.MarkGatewayPaid(ref, h.clock.Now())
	}
}

// reconcilableStatuses lists the states a callback may still move the order from.
func reconcilableStatuses(res payment.Result) []order.Status {
	if res.Success {
		return []order.Status{order.Pending}
	}
	return []order.Status{order.Pending, order.Assigned, order.Shipping}
}

// classify reports the outcome for an order the callback can no longer move.
func classify(o *order.Order, target order.Status, expected []order.Status) (CallbackOutcome, bool) {
	switch {
	case target == order.Failed && o.PaidAt() != nil:
		return OutcomeIgnored, true
	case slices.Contains(expected, o.Status()):
		return "", false
	case o.Status() == target:
		return OutcomeDuplicate, true
	default:
		return OutcomeIgnored, true
	}
}

func paymentMessage(o *order.Order) string {
	if o.Status() == order.GatewayPaid {
		return fmt.Sprintf("order %s paid online", o.Code())
	}
	return fmt.Sprintf("order %s payment declined", o.Code())
}

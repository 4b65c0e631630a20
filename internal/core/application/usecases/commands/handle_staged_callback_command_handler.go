package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// StagedCallbackResult is the outcome of a staged callback and, when applied,
// the order it created.
type StagedCallbackResult struct {
	Outcome CallbackOutcome
	Order   *order.Order
}

// HandleStagedCallbackCommandHandler forwards successful staged payments to
// materialization and discards the intent of declined ones.
type HandleStagedCallbackCommandHandler struct {
	gateway     ports.StagedGateway
	staging     ports.StagingStore
	materialize MaterializeStagedOrderCommandHandler
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewHandleStagedCallbackCommandHandler(
	gateway ports.StagedGateway,
	staging ports.StagingStore,
	materialize MaterializeStagedOrderCommandHandler,
	m *metrics.Metrics,
	logger *slog.Logger,
) HandleStagedCallbackCommandHandler {
	return HandleStagedCallbackCommandHandler{
		gateway:     gateway,
		staging:     staging,
		materialize: materialize,
		metrics:     m,
		logger:      logger.With("component", "staged_callback", "gateway", gateway.Gateway().String()),
	}
}

// Handle returns the ExpiredIntentError of a replayed or late callback together
// with OutcomeDuplicate, so callers can tell it apart from a fresh success.
func (h HandleStagedCallbackCommandHandler) Handle(
	ctx context.Context,
	cmd HandleStagedCallbackCommand,
) (StagedCallbackResult, error) {
	if err := cmd.Validate(); err != nil {
		return StagedCallbackResult{}, err
	}

	result, err := h.handle(ctx, cmd)
	if result.Outcome != "" {
		h.metrics.IncCallback(h.gateway.Gateway().String(), result.Outcome.String())
	}
	return result, err
}

func (h HandleStagedCallbackCommandHandler) handle(
	ctx context.Context,
	cmd HandleStagedCallbackCommand,
) (StagedCallbackResult, error) {
	res, err := h.gateway.InterpretCallback(cmd.Params())
	if err != nil {
		h.logger.WarnContext(ctx, "Dropped malformed callback", "error", err)
		return StagedCallbackResult{Outcome: OutcomeRejected}, err
	}

	log := h.logger.With("token", res.Reference, "result_code", res.ResultCode)

	if !res.Success {
		if discardErr := h.staging.Discard(ctx, res.Reference); discardErr != nil {
			log.WarnContext(ctx, "Failed to discard declined intent", "error", discardErr)
		}
		log.InfoContext(ctx, "Staged payment declined", "message", res.Message)
		return StagedCallbackResult{Outcome: OutcomeDeclined}, nil
	}

	materialize, err := NewMaterializeStagedOrderCommand(res.Reference, cmd.CustomerID())
	if err != nil {
		return StagedCallbackResult{}, err
	}
	if !res.Amount.IsZero() {
		materialize = materialize.WithPaidAmount(res.Amount)
	}

	o, err := h.materialize.Handle(ctx, materialize)
	switch {
	case err == nil:
		return StagedCallbackResult{Outcome: OutcomeApplied, Order: o}, nil
	case errors.Is(err, errs.ErrExpiredIntent):
		log.InfoContext(ctx, "Staged intent already materialized or expired")
		return StagedCallbackResult{Outcome: OutcomeDuplicate}, err
	case errs.IsValidation(err):
		return StagedCallbackResult{Outcome: OutcomeRejected}, err
	default:
		return StagedCallbackResult{}, err
	}
}

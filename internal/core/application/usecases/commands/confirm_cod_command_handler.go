package commands

import (
	"context"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
)

type ConfirmCodCommandHandler struct {
	store  ports.OrderStore
	sink   ports.NotificationSink
	clock  clock.Clock
	logger *slog.Logger
}

func NewConfirmCodCommandHandler(
	store ports.OrderStore,
	sink ports.NotificationSink,
	c clock.Clock,
	logger *slog.Logger,
) ConfirmCodCommandHandler {
	return ConfirmCodCommandHandler{
		store:  store,
		sink:   sink,
		clock:  c,
		logger: logger.With("component", "confirm_cod"),
	}
}

// Handle settles COD on a done order. Already settled orders are returned as is.
func (h ConfirmCodCommandHandler) Handle(ctx context.Context, cmd ConfirmCodCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.store.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if o.IsCodPaid() {
		return o, nil
	}

	updated, err := h.store.ConditionalUpdate(ctx, o.ID(), []order.Status{order.Done}, func(o *order.Order) error {
		return o.ConfirmCod(h.clock.Now())
	})
	if err != nil {
		return resolveConflict(ctx, h.store, o.ID(), err, (*order.Order).IsCodPaid)
	}

	h.logger.InfoContext(ctx, "COD confirmed", "order_id", updated.ID().String(), "amount", updated.CodAmount().String())
	h.sink.Notify(ctx, updated.ID(), fmt.Sprintf("order %s COD settled", updated.Code()))
	return updated, nil
}

package commands

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/ports"
)

// CreateCourierCommandHandler adds couriers to the directory.
type CreateCourierCommandHandler struct {
	directory ports.CourierDirectory
	logger    *slog.Logger
}

func NewCreateCourierCommandHandler(directory ports.CourierDirectory, logger *slog.Logger) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		directory: directory,
		logger:    logger.With("component", "create_courier"),
	}
}

func (h CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := courier.RestoreCourier(cmd.CourierID(), cmd.Name(), cmd.Phone(), true, cmd.MaxActiveOrders())
	if err != nil {
		return nil, err
	}

	if err = h.directory.Add(ctx, c); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "Courier registered", "courier_id", c.ID().String())
	return c, nil
}

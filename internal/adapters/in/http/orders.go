package http

import (
	"net/http"
	"strconv"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	var req OrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	draft, err := req.toDraft()
	if err != nil {
		return err
	}
	cmd, err := commands.NewCreateOrderCommand(viewer.ID, draft)
	if err != nil {
		return err
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderView(o))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id, viewer)
	if err != nil {
		return err
	}

	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// TrackOrder handles GET /api/v1/tracking/:code.
func (s *Server) TrackOrder(c echo.Context) error {
	query, err := queries.NewTrackOrderQuery(c.Param("code"))
	if err != nil {
		return err
	}

	view, err := s.h.TrackOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// GetAvailableOrders handles GET /api/v1/orders/available?limit=n.
func (s *Server) GetAvailableOrders(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("limit", err)
		}
		limit = parsed
	}

	query, err := queries.NewGetAvailableOrdersQuery(limit)
	if err != nil {
		return err
	}

	orders, err := s.h.GetAvailableOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// ClaimOrder handles POST /api/v1/orders/:id/claim.
func (s *Server) ClaimOrder(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAssignToSelfCommand(id, viewer.ID)
	if err != nil {
		return err
	}

	o, err := s.h.AssignToSelf.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderView(o))
}

// StartShipping handles POST /api/v1/orders/:id/ship.
func (s *Server) StartShipping(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewStartShippingCommand(id, &viewer.ID)
	if err != nil {
		return err
	}

	o, err := s.h.StartShipping.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderView(o))
}

// RecordDelivered handles POST /api/v1/orders/:id/delivered.
func (s *Server) RecordDelivered(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req DeliveredRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewRecordDeliveredCommand(id, &viewer.ID, req.ProofRef, req.Note)
	if err != nil {
		return err
	}

	o, err := s.h.RecordDelivered.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderView(o))
}

// RecordFailed handles POST /api/v1/orders/:id/failed.
func (s *Server) RecordFailed(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req FailedRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewRecordFailedCommand(id, &viewer.ID, req.Reason)
	if err != nil {
		return err
	}

	o, err := s.h.RecordFailed.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderView(o))
}

func orderIDParam(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

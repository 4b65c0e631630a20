package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AssignOrder handles POST /api/v1/admin/orders/:id/assign.
func (s *Server) AssignOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req AssignRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAssignByDispatcherCommand(id, courierID)
	if err != nil {
		return err
	}

	o, err := s.h.AssignByDispatcher.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderView(o))
}

// ConfirmCod handles POST /api/v1/admin/orders/:id/confirm-cod.
func (s *Server) ConfirmCod(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewConfirmCodCommand(id)
	if err != nil {
		return err
	}

	o, err := s.h.ConfirmCod.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderView(o))
}

// CreateCourier handles POST /api/v1/admin/couriers.
func (s *Server) CreateCourier(c echo.Context) error {
	var req CreateCourierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewCreateCourierCommand(req.Name, req.Phone, req.MaxActiveOrders)
	if err != nil {
		return err
	}

	created, err := s.h.CreateCourier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCourierResponse(created))
}

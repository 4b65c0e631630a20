package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const callbackReceived = "Payment result received"

// ipnAcks maps callback outcomes onto the codes the redirect gateway expects
// from its IPN call.
var ipnAcks = map[commands.CallbackOutcome]IPNResponse{
	commands.OutcomeApplied:      {RspCode: "00", Message: "Confirm Success"},
	commands.OutcomeDuplicate:    {RspCode: "02", Message: "Order already confirmed"},
	commands.OutcomeIgnored:      {RspCode: "02", Message: "Order already confirmed"},
	commands.OutcomeUnknownOrder: {RspCode: "01", Message: "Order not found"},
	commands.OutcomeRejected:     {RspCode: "97", Message: "Invalid request"},

	commands.OutcomeAmountMismatch: {RspCode: "04", Message: "Invalid amount"},
}

var ipnUnknownError = IPNResponse{RspCode: "99", Message: "Unknown error"}

// BeginVNPayPayment handles POST /api/v1/payments/vnpay.
func (s *Server) BeginVNPayPayment(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	var req BeginRedirectPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewBeginRedirectPaymentCommand(orderID, viewer.ID, c.RealIP())
	if err != nil {
		return err
	}

	redirect, err := s.h.BeginRedirectPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PaymentURLResponse{PaymentURL: redirect})
}

// VNPayReturn handles GET /api/v1/payments/vnpay/return. The browser gets the
// same acknowledgement whatever the outcome.
func (s *Server) VNPayReturn(c echo.Context) error {
	cmd := commands.NewHandleRedirectCallbackCommand(c.QueryParams())
	if _, err := s.h.HandleRedirectCallback.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CallbackAck{Message: callbackReceived})
}

// VNPayIPN handles GET /api/v1/payments/vnpay/ipn. The gateway always gets a
// 200 with its own acknowledgement codes.
func (s *Server) VNPayIPN(c echo.Context) error {
	cmd := commands.NewHandleRedirectCallbackCommand(c.QueryParams())
	outcome, err := s.h.HandleRedirectCallback.Handle(c.Request().Context(), cmd)
	if err != nil {
		s.logger.ErrorContext(c.Request().Context(), "IPN handling failed", "error", err)
		return c.JSON(http.StatusOK, ipnUnknownError)
	}

	ack, ok := ipnAcks[outcome]
	if !ok {
		ack = ipnUnknownError
	}
	return c.JSON(http.StatusOK, ack)
}

// BeginMoMoPayment handles POST /api/v1/payments/momo. The order is created
// only after the payment succeeds.
func (s *Server) BeginMoMoPayment(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	var req OrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	draft, err := req.toDraft()
	if err != nil {
		return err
	}
	cmd, err := commands.NewBeginStagedPaymentCommand(viewer.ID, draft)
	if err != nil {
		return err
	}

	redirect, err := s.h.BeginStagedPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PaymentURLResponse{PaymentURL: redirect})
}

// MoMoReturn handles GET /api/v1/payments/momo/return.
func (s *Server) MoMoReturn(c echo.Context) error {
	viewer, _ := viewerFrom(c)

	cmd, err := commands.NewHandleStagedCallbackCommand(c.QueryParams(), viewer.ID)
	if err != nil {
		return err
	}

	result, err := s.h.HandleStagedCallback.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	resp := StagedCallbackResponse{Outcome: result.Outcome.String()}
	status := http.StatusOK
	if result.Order != nil {
		view := toOrderView(result.Order)
		resp.Order = &view
		status = http.StatusCreated
	}
	return c.JSON(status, resp)
}

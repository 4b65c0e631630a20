package http

import (
	"errors"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

type RecipientRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Phone   string `json:"phone" validate:"required,max=32"`
	Address string `json:"address" validate:"required,max=512"`
}

// OrderRequest is the body of direct order creation and of staged payments.
type OrderRequest struct {
	ServiceLevel string           `json:"serviceLevel" validate:"max=16"`
	ShipFee      kernel.Money     `json:"shipFee"`
	CodAmount    kernel.Money     `json:"codAmount"`
	ShipPayer    string           `json:"shipPayer" validate:"required"`
	Recipient    RecipientRequest `json:"recipient"`
	Note         string           `json:"note" validate:"max=1000"`
}

func (r OrderRequest) toDraft() (order.Draft, error) {
	level, levelErr := order.ParseServiceLevel(r.ServiceLevel)
	payer, payerErr := order.ParseShipPayer(r.ShipPayer)
	if err := errors.Join(levelErr, payerErr); err != nil {
		return order.Draft{}, err
	}
	return order.Draft{
		ServiceLevel: level,
		ShipFee:      r.ShipFee,
		CodAmount:    r.CodAmount,
		ShipPayer:    payer,
		Recipient: order.Recipient{
			Name:    r.Recipient.Name,
			Phone:   r.Recipient.Phone,
			Address: r.Recipient.Address,
		},
		Note: r.Note,
	}, nil
}

type DeliveredRequest struct {
	ProofRef string `json:"proofRef" validate:"max=512"`
	Note     string `json:"note" validate:"max=1000"`
}

type FailedRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type AssignRequest struct {
	CourierID string `json:"courierId" validate:"required,uuid"`
}

type CreateCourierRequest struct {
	Name            string `json:"name" validate:"required,max=128"`
	Phone           string `json:"phone" validate:"max=32"`
	MaxActiveOrders int    `json:"maxActiveOrders" validate:"omitempty,min=1,max=100"`
}

type BeginRedirectPaymentRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

type PaymentURLResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

// CallbackAck is the only body a redirect return endpoint answers with.
type CallbackAck struct {
	Message string `json:"message"`
}

// StagedCallbackResponse reports a staged payment return. Order is set when
// the payment created one.
type StagedCallbackResponse struct {
	Outcome string             `json:"outcome"`
	Order   *queries.OrderView `json:"order,omitempty"`
}

// IPNResponse is the acknowledgement format the redirect gateway expects
// from its server-to-server notification.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

type CourierResponse struct {
	ID              kernel.UUID `json:"id"`
	Name            string      `json:"name"`
	Phone           string      `json:"phone"`
	Active          bool        `json:"active"`
	MaxActiveOrders int         `json:"maxActiveOrders"`
}

func toCourierResponse(c *courier.Courier) CourierResponse {
	return CourierResponse{
		ID:              c.ID(),
		Name:            c.Name(),
		Phone:           c.Phone(),
		Active:          c.IsActive(),
		MaxActiveOrders: c.MaxActiveOrders(),
	}
}

// toOrderView renders a freshly written aggregate with the same shape the
// read side returns.
func toOrderView(o *order.Order) queries.OrderView {
	r := o.Recipient()
	return queries.OrderView{
		ID:           o.ID(),
		Code:         o.Code(),
		CustomerID:   o.CustomerID(),
		DriverID:     o.Driver(),
		ServiceLevel: o.ServiceLevel().String(),
		Status:       o.Status().String(),
		ShipFee:      o.ShipFee(),
		CodAmount:    o.CodAmount(),
		IsCodPaid:    o.IsCodPaid(),
		ShipPayer:    o.ShipPayer().String(),
		Recipient: queries.RecipientView{
			Name:    r.Name,
			Phone:   r.Phone,
			Address: r.Address,
		},
		Note:          o.Note(),
		ProofRef:      o.ProofRef(),
		DeliveredNote: o.DeliveredNote(),
		FailedReason:  o.FailedReason(),
		CreatedAt:     o.CreatedAt(),
		AssignedAt:    o.AssignedAt(),
		DeliveredAt:   o.DeliveredAt(),
		FailedAt:      o.FailedAt(),
		CodPaidAt:     o.CodPaidAt(),
		PaidAt:        o.PaidAt(),
	}
}

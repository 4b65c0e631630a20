package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads one order on behalf of a viewer.
type GetOrderQuery struct {
	orderID kernel.UUID
	viewer  Viewer

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, viewer Viewer) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), viewer.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, viewer: viewer, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Viewer() Viewer {
	return q.viewer
}

// RecipientView is who the parcel goes to.
type RecipientView struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderView is the full read model of an order.
type OrderView struct {
	ID            kernel.UUID   `json:"id"`
	Code          string        `json:"code"`
	CustomerID    kernel.UUID   `json:"customerId"`
	DriverID      *kernel.UUID  `json:"driverId,omitempty"`
	ServiceLevel  string        `json:"serviceLevel"`
	Status        string        `json:"status"`
	ShipFee       kernel.Money  `json:"shipFee"`
	CodAmount     kernel.Money  `json:"codAmount"`
	IsCodPaid     bool          `json:"isCodPaid"`
	ShipPayer     string        `json:"shipPayer"`
	Recipient     RecipientView `json:"recipient"`
	Note          string        `json:"note,omitempty"`
	ProofRef      string        `json:"proofRef,omitempty"`
	DeliveredNote string        `json:"deliveredNote,omitempty"`
	FailedReason  string        `json:"failedReason,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	AssignedAt    *time.Time    `json:"assignedAt,omitempty"`
	DeliveredAt   *time.Time    `json:"deliveredAt,omitempty"`
	FailedAt      *time.Time    `json:"failedAt,omitempty"`
	CodPaidAt     *time.Time    `json:"codPaidAt,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

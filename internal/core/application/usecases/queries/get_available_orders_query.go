package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const (
	DefaultAvailableLimit = 50
	MaxAvailableLimit     = 200
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery lists the orders a courier may claim, oldest first.
//
// Example:
//
//	query, err := NewGetAvailableOrdersQuery(0)
//	orders, err := NewGetAvailableOrdersQueryHandler(db).Handle(ctx, query)
type GetAvailableOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery accepts a limit in [0, MaxAvailableLimit].
// Zero means DefaultAvailableLimit.
func NewGetAvailableOrdersQuery(limit int) (GetAvailableOrdersQuery, error) {
	if limit < 0 || limit > MaxAvailableLimit {
		return GetAvailableOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxAvailableLimit)
	}
	if limit == 0 {
		limit = DefaultAvailableLimit
	}
	return GetAvailableOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

func (q GetAvailableOrdersQuery) Limit() int {
	return q.limit
}

// AvailableOrderView is what a courier sees before claiming: enough to decide,
// without the recipient's name or phone.
type AvailableOrderView struct {
	ID               kernel.UUID  `json:"id"`
	Code             string       `json:"code"`
	ServiceLevel     string       `json:"serviceLevel"`
	Status           string       `json:"status"`
	ShipFee          kernel.Money `json:"shipFee"`
	CodAmount        kernel.Money `json:"codAmount"`
	ShipPayer        string       `json:"shipPayer"`
	RecipientAddress string       `json:"recipientAddress"`
	CreatedAt        time.Time    `json:"createdAt"`
}

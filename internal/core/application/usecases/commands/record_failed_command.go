package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrRecordFailedCommandIsNotConstructed = errors.New(
	"RecordFailedCommand must be created via NewRecordFailedCommand constructor",
)

// RecordFailedCommand records a failed delivery attempt. The reason is required.
type RecordFailedCommand struct {
	orderID   kernel.UUID
	courierID *kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

func NewRecordFailedCommand(orderID kernel.UUID, courierID *kernel.UUID, reason string) (RecordFailedCommand, error) {
	var reasonErr error
	if strings.TrimSpace(reason) == "" {
		reasonErr = order.ErrReasonIsRequired
	}
	if err := errors.Join(orderID.Validate(), validateActor(courierID), reasonErr); err != nil {
		return RecordFailedCommand{}, err
	}
	return RecordFailedCommand{
		orderID:   orderID,
		courierID: courierID,
		reason:    strings.TrimSpace(reason),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecordFailedCommand) Validate() error {
	return c.guard.Validate(ErrRecordFailedCommandIsNotConstructed)
}

func (c RecordFailedCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordFailedCommand) CourierID() *kernel.UUID {
	return c.courierID
}

func (c RecordFailedCommand) Reason() string {
	return c.reason
}

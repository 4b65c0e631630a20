package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrRecordDeliveredCommandIsNotConstructed = errors.New(
	"RecordDeliveredCommand must be created via NewRecordDeliveredCommand constructor",
)

// RecordDeliveredCommand completes an order. proofRef is an opaque reference to
// a proof-of-delivery image stored elsewhere.
type RecordDeliveredCommand struct {
	orderID   kernel.UUID
	courierID *kernel.UUID
	proofRef  string
	note      string

	guard guard.ConstructorGuard
}

func NewRecordDeliveredCommand(
	orderID kernel.UUID,
	courierID *kernel.UUID,
	proofRef, note string,
) (RecordDeliveredCommand, error) {
	if err := errors.Join(orderID.Validate(), validateActor(courierID)); err != nil {
		return RecordDeliveredCommand{}, err
	}
	return RecordDeliveredCommand{
		orderID:   orderID,
		courierID: courierID,
		proofRef:  proofRef,
		note:      note,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecordDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveredCommandIsNotConstructed)
}

func (c RecordDeliveredCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordDeliveredCommand) CourierID() *kernel.UUID {
	return c.courierID
}

func (c RecordDeliveredCommand) ProofRef() string {
	return c.proofRef
}

func (c RecordDeliveredCommand) Note() string {
	return c.note
}

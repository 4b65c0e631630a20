package services

import (
	"fmt"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// SelfServicePolicy decides whether a courier may claim an order without a dispatcher.
//
// Rules:
//   - the courier is active
//   - the order's service level allows courier-initiated pickup
//   - the courier holds fewer active orders than its limit
//
// The load check reads a count taken before the claim, so under concurrent claims
// by the same courier the limit can be exceeded by the number of racing requests.
// Ownership of the order itself is still granted to exactly one courier.
type SelfServicePolicy struct{}

func NewSelfServicePolicy() SelfServicePolicy {
	return SelfServicePolicy{}
}

// Check returns nil when the courier may claim the order, or a ConflictError naming the rule that failed.
//
// Parameters:
//   - c: the claiming courier
//   - o: the order being claimed
//   - activeOrders: number of assigned or shipping orders the courier currently holds
func (p SelfServicePolicy) Check(c *courier.Courier, o *order.Order, activeOrders int) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}

	if !c.IsActive() {
		return errs.NewConflictError("courier", "is not active")
	}
	if !o.ServiceLevel().AllowsSelfService() {
		return errs.NewConflictErrorWithCause(
			"order",
			"requires dispatcher assignment",
			fmt.Errorf("service level %s", o.ServiceLevel()),
		)
	}
	if activeOrders >= c.MaxActiveOrders() {
		return errs.NewConflictErrorWithCause(
			"courier",
			"has reached the active order limit",
			fmt.Errorf("%d of %d", activeOrders, c.MaxActiveOrders()),
		)
	}
	return nil
}

package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Allowed transitions:
//
//	pending      -> assigned, gateway_paid, failed
//	assigned     -> shipping, failed
//	shipping     -> done, failed
//	gateway_paid -> assigned, failed
//
// Done and Failed are terminal. GatewayPaid records an online prepayment and
// the order may then be assigned like a pending one.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every order.
	Pending

	// Assigned means a courier owns the order.
	Assigned

	// Shipping means the courier has picked the parcel up.
	Shipping

	// Done means the parcel was delivered. Terminal.
	Done

	// Failed means delivery or payment failed. Terminal. Also covers cancellation.
	Failed

	// GatewayPaid means a redirect gateway confirmed the prepayment.
	GatewayPaid
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "unknown",
		Pending:     "pending",
		Assigned:    "assigned",
		Shipping:    "shipping",
		Done:        "done",
		Failed:      "failed",
		GatewayPaid: "gateway_paid",
	}
}

// getAllowedTransitions is the single source of truth for status edges.
func getAllowedTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:     {Assigned, GatewayPaid, Failed},
		Assigned:    {Shipping, Failed},
		Shipping:    {Done, Failed},
		GatewayPaid: {Assigned, Failed},
	}
}

// ParseStatus converts a persisted or external status name into a Status.
// The legacy value "cancelled" maps to Failed.
//
// Returns a ValueIsInvalidError for unknown names.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "cancelled" || name == "canceled" {
		return Failed, nil
	}
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate checks that s is one of the defined statuses other than Unknown.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == Done || s == Failed
}

// CanTransitionTo reports whether from s to next is an allowed edge.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getAllowedTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition is the gate every mutating operation passes through.
//
// Returns:
//   - nil if from -> to is in the allowed edge table
//   - ConflictError otherwise, including every attempt to leave a terminal status
//
// Example:
//
//	if err := order.ValidateTransition(o.Status(), order.Shipping); err != nil {
//	    return err // errors.Is(err, errs.ErrConflict)
//	}
func ValidateTransition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return errs.NewConflictErrorWithCause(
			"status",
			"transition is not allowed",
			fmt.Errorf("%s -> %s", from, to),
		)
	}
	return nil
}

// ValidateCanHaveDriver checks the consistency between status and courier ownership.
//
// Business Rules:
//   - Assigned, Shipping and Done orders must have a driver
//   - Pending and GatewayPaid orders must not have a driver
//   - Failed orders may have one or not (payment failures happen before assignment)
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	switch s {
	case Assigned, Shipping, Done:
		if !hasDriver {
			return errs.NewValueIsInvalidErrorWithCause(
				"status",
				fmt.Errorf("%s is not a valid status to have no driver", s),
			)
		}
	case Pending, GatewayPaid:
		if hasDriver {
			return errs.NewValueIsInvalidErrorWithCause(
				"status",
				fmt.Errorf("%s is not a valid status to have a driver", s),
			)
		}
	case Failed, Unknown:
	}
	return nil
}

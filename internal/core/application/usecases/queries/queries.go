// Package queries contains read operations for retrieving order state.
// Handlers read the orders table directly and return read models shaped for
// their callers; they never load the Order aggregate.
package queries

import (
	"slices"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is what a viewer acts as. Visibility of an order depends on it.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleCourier    Role = "courier"
	RoleDispatcher Role = "dispatcher"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleCourier, RoleDispatcher:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidError("role")
	}
}

// Viewer identifies who is reading.
type Viewer struct {
	ID   kernel.UUID
	Role Role
}

func (v Viewer) Validate() error {
	if err := v.ID.Validate(); err != nil {
		return err
	}
	_, err := ParseRole(string(v.Role))
	return err
}

// claimable lists the statuses an unassigned order may be claimed from.
var claimable = []string{order.Pending.String(), order.GatewayPaid.String()}

// selfServiceLevels lists the tiers couriers may claim without a dispatcher.
var selfServiceLevels = []string{order.Standard.String(), order.Fast.String()}

// orderRow is the read-side view of the orders table.
type orderRow struct {
	ID               uuid.UUID
	Code             string
	CustomerID       uuid.UUID
	DriverID         *uuid.UUID
	ServiceLevel     string
	ShipFee          decimal.Decimal
	CodAmount        decimal.Decimal
	IsCodPaid        bool
	ShipPayer        string
	RecipientName    string
	RecipientPhone   string
	RecipientAddress string
	Note             string
	Status           string
	ProofRef         string
	DeliveredNote    string
	FailedReason     string
	CreatedAt        time.Time
	AssignedAt       *time.Time
	DeliveredAt      *time.Time
	FailedAt         *time.Time
	CodPaidAt        *time.Time
	PaidAt           *time.Time
}

func (orderRow) TableName() string {
	return "orders"
}

// visibleTo applies the read rules: dispatchers see every order, customers
// their own, couriers the ones they drive plus the ones they could claim.
func (r orderRow) visibleTo(v Viewer) bool {
	switch v.Role {
	case RoleDispatcher:
		return true
	case RoleCustomer:
		return r.CustomerID == v.ID.Raw()
	case RoleCourier:
		if r.DriverID != nil {
			return *r.DriverID == v.ID.Raw()
		}
		return slices.Contains(claimable, r.Status) && slices.Contains(selfServiceLevels, r.ServiceLevel)
	default:
		return false
	}
}

func toUUID(raw uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromRaw(raw)
}

func toUUIDPtr(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromRaw(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

package courier

import (
	"errors"
	"fmt"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// DefaultMaxActiveOrders is the load limit for newly registered couriers.
const DefaultMaxActiveOrders = 5

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is a delivery driver known to the directory.
//
// Business rules:
//   - A courier has a valid identifier and a non-empty name
//   - Only active couriers may claim orders themselves
//   - maxActiveOrders bounds how many assigned or shipping orders a courier may hold
//     when claiming; dispatchers are not bound by it
type Courier struct {
	id              kernel.UUID
	name            string
	phone           string
	active          bool
	maxActiveOrders int

	guard guard.ConstructorGuard
}

// NewCourier registers an active courier with the default load limit.
//
// Example:
//
//	c, err := courier.NewCourier(kernel.NewUUID(), "Minh", "0903000222")
func NewCourier(id kernel.UUID, name, phone string) (*Courier, error) {
	return RestoreCourier(id, name, phone, true, DefaultMaxActiveOrders)
}

// RestoreCourier rebuilds a courier from storage.
func RestoreCourier(id kernel.UUID, name, phone string, active bool, maxActiveOrders int) (*Courier, error) {
	c := &Courier{
		phone:  phone,
		active: active,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setMaxActiveOrders(maxActiveOrders),
	); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Phone() string {
	return c.phone
}

func (c *Courier) IsActive() bool {
	return c.active
}

func (c *Courier) MaxActiveOrders() int {
	return c.maxActiveOrders
}

// Deactivate stops the courier from claiming new orders. Existing assignments stay.
func (c *Courier) Deactivate() {
	c.active = false
}

func (c *Courier) Activate() {
	c.active = true
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setMaxActiveOrders(limit int) error {
	if limit < 1 || limit > 100 {
		return errs.NewValueIsOutOfRangeErrorWithCause(
			"maxActiveOrders", limit, 1, 100, fmt.Errorf("courier %s", c.name),
		)
	}
	c.maxActiveOrders = limit
	return nil
}

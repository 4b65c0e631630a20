package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// ShipPayer says who pays the shipping fee and, for COD, whom the courier collects from.
type ShipPayer string

const (
	Sender   ShipPayer = "sender"
	Receiver ShipPayer = "receiver"
)

func ParseShipPayer(s string) (ShipPayer, error) {
	p := ShipPayer(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p ShipPayer) Validate() error {
	if p != Sender && p != Receiver {
		return errs.NewValueIsInvalidErrorWithCause("shipPayer", fmt.Errorf("%q is not sender or receiver", string(p)))
	}
	return nil
}

func (p ShipPayer) String() string {
	return string(p)
}

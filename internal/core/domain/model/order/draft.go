package order

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Recipient is the party the parcel is delivered to.
type Recipient struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r Recipient) Validate() error {
	var all []error
	if r.Name == "" {
		all = append(all, errs.NewValueIsRequiredError("recipient.name"))
	}
	if r.Phone == "" {
		all = append(all, errs.NewValueIsRequiredError("recipient.phone"))
	}
	if r.Address == "" {
		all = append(all, errs.NewValueIsRequiredError("recipient.address"))
	}
	return errors.Join(all...)
}

// Draft is the customer-supplied part of an order. It is everything a staged
// payment must keep until the order is materialized; identity, code, customer
// and timestamps are assigned by the system at creation time.
type Draft struct {
	ServiceLevel ServiceLevel `json:"serviceLevel"`
	ShipFee      kernel.Money `json:"shipFee"`
	CodAmount    kernel.Money `json:"codAmount"`
	ShipPayer    ShipPayer    `json:"shipPayer"`
	Recipient    Recipient    `json:"recipient"`
	Note         string       `json:"note,omitempty"`
}

// Validate joins every field error so callers see all problems at once.
func (d Draft) Validate() error {
	return errors.Join(
		d.ServiceLevel.Validate(),
		d.ShipPayer.Validate(),
		d.Recipient.Validate(),
	)
}

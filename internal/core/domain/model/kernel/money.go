package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// minorUnitsPerUnit is the scale gateways expect for integer amounts.
const minorUnitsPerUnit = 100

var maxMoney = decimal.New(1, 13)

// Money is a non-negative VND amount with at most two fractional digits.
// The zero value is a valid zero amount.
type Money struct {
	amount decimal.Decimal
}

// NewMoney validates and wraps an amount.
//
// Returns:
//   - ValueIsOutOfRangeError if the amount is negative or too large for storage
//   - ValueIsInvalidError if the amount has more than two fractional digits
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() || amount.GreaterThanOrEqual(maxMoney) {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, maxMoney.String())
	}
	if !amount.Equal(amount.Truncate(2)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s has more than two fractional digits", amount.String()),
		)
	}
	return Money{amount: amount}, nil
}

// MoneyFromInt builds an amount of whole currency units.
func MoneyFromInt(units int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(units))
}

// MoneyFromString parses a decimal literal such as "50000" or "12.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// MoneyFromMinorUnits reverses MinorUnits.
func MoneyFromMinorUnits(minor int64) (Money, error) {
	return NewMoney(decimal.New(minor, 0).Div(decimal.NewFromInt(minorUnitsPerUnit)))
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// MinorUnits returns the amount scaled by 100 as an integer.
func (m Money) MinorUnits() int64 {
	return m.amount.Mul(decimal.NewFromInt(minorUnitsPerUnit)).IntPart()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.String()
}

// MarshalJSON encodes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.MarshalJSON()
}

// UnmarshalJSON accepts a decimal string or number and validates it.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	parsed, err := NewMoney(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

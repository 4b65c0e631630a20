package testutil

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// NewDraft builds a valid standard-tier draft.
func NewDraft(t *testing.T, payer order.ShipPayer, cod int64) order.Draft {
	t.Helper()

	fee, err := kernel.MoneyFromInt(30000)
	require.NoError(t, err)
	codAmount, err := kernel.MoneyFromInt(cod)
	require.NoError(t, err)

	return order.Draft{
		ServiceLevel: order.Standard,
		ShipFee:      fee,
		CodAmount:    codAmount,
		ShipPayer:    payer,
		Recipient: order.Recipient{
			Name:    "Nguyen Thi Lan",
			Phone:   "0901000111",
			Address: "12 Le Loi, District 1, Ho Chi Minh City",
		},
	}
}

// NewPendingOrder builds a pending order created at now.
func NewPendingOrder(t *testing.T, payer order.ShipPayer, cod int64, now time.Time) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateCode(now), kernel.NewUUID(), NewDraft(t, payer, cod), now)
	require.NoError(t, err)
	return o
}

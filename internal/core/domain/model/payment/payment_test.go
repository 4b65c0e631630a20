package payment_test

import (
	"encoding/json"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntent_Validate(t *testing.T) {
	amount, _ := kernel.MoneyFromInt(120000)
	orderID := kernel.NewUUID()

	t.Run("should accept redirect intent with order id", func(t *testing.T) {
		i := payment.Intent{Gateway: payment.VNPay, Amount: amount, OrderID: &orderID}

		require.NoError(t, i.Validate())
	})

	t.Run("should reject zero amount and missing target", func(t *testing.T) {
		i := payment.Intent{Gateway: payment.MoMo}

		err := i.Validate()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should validate staged draft", func(t *testing.T) {
		i := payment.Intent{Gateway: payment.MoMo, Amount: amount, Draft: &order.Draft{}}

		require.Error(t, i.Validate())
	})
}

func TestIntent_JSON(t *testing.T) {
	t.Run("should keep staged payload intact", func(t *testing.T) {
		amount, _ := kernel.MoneyFromString("150000.50")
		cod, _ := kernel.MoneyFromInt(50000)
		draft := order.Draft{
			ServiceLevel: order.Fast,
			CodAmount:    cod,
			ShipPayer:    order.Receiver,
			Recipient:    order.Recipient{Name: "Lan", Phone: "0901", Address: "District 3"},
			Note:         "call first",
		}
		in := payment.Intent{
			Gateway:   payment.MoMo,
			Reference: "tok",
			Amount:    amount,
			Draft:     &draft,
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}

		raw, err := json.Marshal(in)
		require.NoError(t, err)

		var out payment.Intent
		require.NoError(t, json.Unmarshal(raw, &out))

		assert.True(t, out.Amount.Equal(amount))
		require.NotNil(t, out.Draft)
		assert.True(t, out.Draft.CodAmount.Equal(cod))
		assert.Equal(t, draft.Recipient, out.Draft.Recipient)
		assert.Equal(t, "call first", out.Draft.Note)
		assert.Nil(t, out.OrderID)
	})
}

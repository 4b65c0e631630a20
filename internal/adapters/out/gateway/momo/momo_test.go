package momo_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"orderflow/internal/adapters/out/gateway/momo"
	"orderflow/internal/adapters/out/staging"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newIntent(t *testing.T) payment.Intent {
	t.Helper()
	draft := testutil.NewDraft(t, order.Receiver, 0)
	return payment.Intent{
		Gateway:     payment.MoMo,
		Amount:      draft.ShipFee,
		Description: "Phi giao hang",
		Draft:       &draft,
		CreatedAt:   now,
	}
}

func TestGateway_BuildOutboundRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("should stage the draft and embed only token and amount", func(t *testing.T) {
		store := staging.NewMemoryStore(clock.NewFixed(now))
		g, err := momo.NewGateway(momo.Config{
			Endpoint:  "https://test-payment.momo.vn/pay",
			ReturnURL: "http://localhost:8080/api/v1/payments/momo/return",
		}, store)
		require.NoError(t, err)
		intent := newIntent(t)

		raw, err := g.BuildOutboundRequest(ctx, intent)
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(raw, "https://test-payment.momo.vn/pay?"))
		q := u.Query()
		token := q.Get(momo.ParamOrderID)
		require.NotEmpty(t, token)
		assert.Equal(t, "30000", q.Get(momo.ParamAmount))
		assert.True(t, q.Has(momo.ParamExtraData))
		assert.False(t, q.Has(momo.ParamResultCode))
		assert.NotContains(t, raw, intent.Draft.Recipient.Phone)

		staged, err := store.Take(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, token, staged.Reference)
		require.NotNil(t, staged.Draft)
		assert.Equal(t, intent.Draft.Recipient, staged.Draft.Recipient)
	})

	t.Run("should return to the service with a success result in simulation", func(t *testing.T) {
		g, err := momo.NewGateway(momo.Config{
			ReturnURL: "http://localhost:8080/api/v1/payments/momo/return",
			Simulate:  true,
		}, staging.NewMemoryStore(clock.NewFixed(now)))
		require.NoError(t, err)

		raw, err := g.BuildOutboundRequest(ctx, newIntent(t))
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/payments/momo/return", u.Path)
		assert.Equal(t, "0", u.Query().Get(momo.ParamResultCode))
		assert.NotEmpty(t, u.Query().Get(momo.ParamMessage))
	})

	t.Run("should use a fresh token per request", func(t *testing.T) {
		store := staging.NewMemoryStore(clock.NewFixed(now))
		g, err := momo.NewGateway(momo.Config{ReturnURL: "http://localhost/return", Simulate: true}, store)
		require.NoError(t, err)

		_, err = g.BuildOutboundRequest(ctx, newIntent(t))
		require.NoError(t, err)
		_, err = g.BuildOutboundRequest(ctx, newIntent(t))
		require.NoError(t, err)

		assert.Equal(t, 2, store.Len())
		assert.Equal(t, momo.DefaultTTL, g.TTL())
	})

	t.Run("should refuse an intent without draft", func(t *testing.T) {
		g, err := momo.NewGateway(momo.Config{ReturnURL: "http://localhost/return", Simulate: true},
			staging.NewMemoryStore(clock.NewFixed(now)))
		require.NoError(t, err)
		intent := newIntent(t)
		intent.Draft = nil
		orderID := kernel.NewUUID()
		intent.OrderID = &orderID

		_, err = g.BuildOutboundRequest(ctx, intent)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestGateway_InterpretCallback(t *testing.T) {
	g, err := momo.NewGateway(momo.Config{ReturnURL: "http://localhost/return", Simulate: true},
		staging.NewMemoryStore(clock.NewFixed(now)))
	require.NoError(t, err)

	t.Run("should report success for result code 0", func(t *testing.T) {
		res, err := g.InterpretCallback(url.Values{
			momo.ParamOrderID:    {"tok-1"},
			momo.ParamAmount:     {"30000"},
			momo.ParamResultCode: {"0"},
			momo.ParamMessage:    {"Successful."},
			momo.ParamTransID:    {"4088878653"},
		})

		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "tok-1", res.Reference)
		assert.Equal(t, "4088878653", res.TransactionID)
		assert.Equal(t, "30000", res.Amount.String())
		assert.Nil(t, res.OrderID)
	})

	t.Run("should report failure for any other code", func(t *testing.T) {
		res, err := g.InterpretCallback(url.Values{
			momo.ParamOrderID:    {"tok-1"},
			momo.ParamResultCode: {"1006"},
		})

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "1006", res.ResultCode)
	})

	t.Run("should reject callbacks without token or with a bad amount", func(t *testing.T) {
		_, err := g.InterpretCallback(url.Values{momo.ParamResultCode: {"0"}})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = g.InterpretCallback(url.Values{momo.ParamOrderID: {"tok-1"}, momo.ParamAmount: {"-5"}})
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
	})
}

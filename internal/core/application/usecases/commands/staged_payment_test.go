package commands_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"orderflow/internal/adapters/out/gateway/momo"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stagedFixture struct {
	*env
	gateway     *momo.Gateway
	begin       commands.BeginStagedPaymentCommandHandler
	materialize commands.MaterializeStagedOrderCommandHandler
	callback    commands.HandleStagedCallbackCommandHandler
}

func newStagedFixture(t *testing.T) *stagedFixture {
	t.Helper()
	e := newEnv(t)
	g, err := momo.NewGateway(momo.Config{
		ReturnURL: "http://localhost:8080/api/v1/payments/momo/return",
		Simulate:  true,
	}, e.staging)
	require.NoError(t, err)

	return newStagedFixtureWithStore(t, e, g, e.orders)
}

func newStagedFixtureWithStore(t *testing.T, e *env, g *momo.Gateway, store ports.OrderStore) *stagedFixture {
	t.Helper()
	materialize := commands.NewMaterializeStagedOrderCommandHandler(e.staging, store, e.sink, e.clock, e.logger)
	return &stagedFixture{
		env:         e,
		gateway:     g,
		begin:       commands.NewBeginStagedPaymentCommandHandler(g, e.clock, e.logger),
		materialize: materialize,
		callback:    commands.NewHandleStagedCallbackCommandHandler(g, e.staging, materialize, e.metrics, e.logger),
	}
}

// start stages a draft and returns the simulated return parameters.
func (f *stagedFixture) start(t *testing.T) url.Values {
	t.Helper()
	cmd, err := commands.NewBeginStagedPaymentCommand(kernel.NewUUID(), testutil.NewDraft(t, order.Receiver, 50000))
	require.NoError(t, err)
	raw, err := f.begin.Handle(context.Background(), cmd)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func (f *stagedFixture) deliverCallback(
	t *testing.T,
	params url.Values,
	customerID kernel.UUID,
) (commands.StagedCallbackResult, error) {
	t.Helper()
	cmd, err := commands.NewHandleStagedCallbackCommand(params, customerID)
	require.NoError(t, err)
	return f.callback.Handle(context.Background(), cmd)
}

func TestBeginStagedPaymentCommandHandler_Handle(t *testing.T) {
	t.Run("should stage the draft without creating an order", func(t *testing.T) {
		f := newStagedFixture(t)

		params := f.start(t)

		token := params.Get(momo.ParamOrderID)
		require.NotEmpty(t, token)
		assert.Equal(t, "30000", params.Get(momo.ParamAmount))
		assert.Equal(t, 1, f.staging.Len())
		assert.Zero(t, f.countOrders(t))
	})
}

func TestHandleStagedCallbackCommandHandler_Handle(t *testing.T) {
	t.Run("should create the order for the paying customer", func(t *testing.T) {
		f := newStagedFixture(t)
		customerID := kernel.NewUUID()

		result, err := f.deliverCallback(t, f.start(t), customerID)

		require.NoError(t, err)
		assert.Equal(t, commands.OutcomeApplied, result.Outcome)
		require.NotNil(t, result.Order)
		assert.Equal(t, customerID, result.Order.CustomerID())
		assert.Equal(t, order.Pending, result.Order.Status())
		assert.Equal(t, int64(1), f.countOrders(t))
		assert.Zero(t, f.staging.Len())
		assert.InDelta(t, 1.0, f.counter(t, "orderflow_payment_callbacks_total", "momo", "applied"), 0)
	})

	t.Run("should create at most one order per token", func(t *testing.T) {
		f := newStagedFixture(t)
		params := f.start(t)
		customerID := kernel.NewUUID()
		_, err := f.deliverCallback(t, params, customerID)
		require.NoError(t, err)

		result, err := f.deliverCallback(t, params, customerID)

		require.ErrorIs(t, err, errs.ErrExpiredIntent)
		assert.Equal(t, commands.OutcomeDuplicate, result.Outcome)
		assert.Nil(t, result.Order)
		assert.Equal(t, int64(1), f.countOrders(t))
	})

	t.Run("should discard the intent of a declined payment", func(t *testing.T) {
		f := newStagedFixture(t)
		params := f.start(t)
		params.Set(momo.ParamResultCode, "1006")

		result, err := f.deliverCallback(t, params, kernel.NewUUID())

		require.NoError(t, err)
		assert.Equal(t, commands.OutcomeDeclined, result.Outcome)
		assert.Zero(t, f.staging.Len())
		assert.Zero(t, f.countOrders(t))
	})

	t.Run("should reject a paid amount other than the staged one", func(t *testing.T) {
		f := newStagedFixture(t)
		params := f.start(t)
		params.Set(momo.ParamAmount, "1000")

		result, err := f.deliverCallback(t, params, kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, commands.OutcomeRejected, result.Outcome)
		assert.Zero(t, f.countOrders(t))
	})

	t.Run("should report an expired intent", func(t *testing.T) {
		f := newStagedFixture(t)
		params := f.start(t)
		f.clock.Advance(f.gateway.TTL() + 1)

		result, err := f.deliverCallback(t, params, kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrExpiredIntent)
		assert.Equal(t, commands.OutcomeDuplicate, result.Outcome)
		assert.Zero(t, f.countOrders(t))
	})

	t.Run("should reject a callback without token", func(t *testing.T) {
		f := newStagedFixture(t)

		result, err := f.deliverCallback(t, url.Values{momo.ParamResultCode: {"0"}}, kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, commands.OutcomeRejected, result.Outcome)
	})
}

func TestMaterializeStagedOrderCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("should fail the second materialization of a token", func(t *testing.T) {
		f := newStagedFixture(t)
		token := f.start(t).Get(momo.ParamOrderID)
		cmd, err := commands.NewMaterializeStagedOrderCommand(token, kernel.NewUUID())
		require.NoError(t, err)

		_, err = f.materialize.Handle(ctx, cmd)
		require.NoError(t, err)
		_, err = f.materialize.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrExpiredIntent)
		assert.Equal(t, int64(1), f.countOrders(t))
	})

	t.Run("should restage the intent when the order cannot be stored", func(t *testing.T) {
		base := newStagedFixture(t)
		store := new(MockOrderStore)
		store.On("Add", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()
		f := newStagedFixtureWithStore(t, base.env, base.gateway, store)
		token := f.start(t).Get(momo.ParamOrderID)
		cmd, err := commands.NewMaterializeStagedOrderCommand(token, kernel.NewUUID())
		require.NoError(t, err)

		_, err = f.materialize.Handle(ctx, cmd)

		require.Error(t, err)
		intent, takeErr := f.staging.Take(ctx, token)
		require.NoError(t, takeErr)
		assert.Equal(t, token, intent.Reference)
		store.AssertExpectations(t)
	})

	t.Run("should refuse an unknown token", func(t *testing.T) {
		f := newStagedFixture(t)
		cmd, err := commands.NewMaterializeStagedOrderCommand("no-such-token", kernel.NewUUID())
		require.NoError(t, err)

		_, err = f.materialize.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrExpiredIntent)
	})
}

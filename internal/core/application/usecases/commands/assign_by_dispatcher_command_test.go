package commands_test

import (
	"context"
	"sync"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatch(t *testing.T, e *env, orderID, courierID kernel.UUID) (*order.Order, error) {
	t.Helper()
	h := commands.NewAssignByDispatcherCommandHandler(e.orders, e.couriers, e.sink, e.clock, e.metrics, e.logger)
	cmd, err := commands.NewAssignByDispatcherCommand(orderID, courierID)
	require.NoError(t, err)
	return h.Handle(context.Background(), cmd)
}

func TestAssignByDispatcherCommandHandler_Handle(t *testing.T) {
	t.Run("should assign express orders and inactive couriers", func(t *testing.T) {
		e := newEnv(t)
		o := e.addOrder(t, order.Receiver, 0, order.Express)
		c := e.addInactiveCourier(t)

		got, err := dispatch(t, e, o.ID(), c.ID())

		require.NoError(t, err)
		assert.True(t, got.IsDrivenBy(c.ID()))
		assert.Equal(t, order.Assigned, e.reload(t, o.ID()).Status())
		assert.InDelta(t, 1.0, e.counter(t, "orderflow_assignments_total", "dispatcher", "assigned"), 0)
	})

	t.Run("should require a known courier", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)

		_, err := dispatch(t, e, o.ID(), kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, order.Pending, e.reload(t, o.ID()).Status())
	})

	t.Run("should report unknown order as not found", func(t *testing.T) {
		e := newEnv(t)

		_, err := dispatch(t, e, kernel.NewUUID(), e.addCourier(t).ID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should not reassign an assigned order", func(t *testing.T) {
		e := newEnv(t)
		o, first := e.addAssignedOrder(t, order.Sender, 0)

		_, err := dispatch(t, e, o.ID(), e.addCourier(t).ID())

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.True(t, e.reload(t, o.ID()).IsDrivenBy(first))
	})

	t.Run("should keep the same assignment on repeat", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)
		c := e.addCourier(t)
		_, err := dispatch(t, e, o.ID(), c.ID())
		require.NoError(t, err)

		_, err = dispatch(t, e, o.ID(), c.ID())

		require.NoError(t, err)
	})

	t.Run("should race safely with self-service claims", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)
		dispatcherPick, claimer := e.addCourier(t), e.addCourier(t)
		self := newAssignToSelfHandler(e)

		var wg sync.WaitGroup
		var dispatchErr, claimErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, dispatchErr = dispatch(t, e, o.ID(), dispatcherPick.ID())
		}()
		go func() {
			defer wg.Done()
			_, claimErr = claim(t, self, o.ID(), claimer.ID())
		}()
		wg.Wait()

		assert.True(t, (dispatchErr == nil) != (claimErr == nil))
		stored := e.reload(t, o.ID())
		if dispatchErr == nil {
			assert.True(t, stored.IsDrivenBy(dispatcherPick.ID()))
		} else {
			assert.True(t, stored.IsDrivenBy(claimer.ID()))
		}
	})
}

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAssignToSelfHandler(e *env) commands.AssignToSelfCommandHandler {
	return commands.NewAssignToSelfCommandHandler(e.orders, e.couriers, e.sink, e.clock, e.metrics, e.logger)
}

func claim(t *testing.T, h commands.AssignToSelfCommandHandler, orderID, courierID kernel.UUID) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewAssignToSelfCommand(orderID, courierID)
	require.NoError(t, err)
	return h.Handle(context.Background(), cmd)
}

func TestAssignToSelfCommandHandler_Handle(t *testing.T) {
	t.Run("should assign a pending order to an eligible courier", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)
		c := e.addCourier(t)

		got, err := claim(t, newAssignToSelfHandler(e), o.ID(), c.ID())

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, got.Status())
		stored := e.reload(t, o.ID())
		assert.True(t, stored.IsDrivenBy(c.ID()))
		require.NotNil(t, stored.AssignedAt())
		assert.True(t, now.Equal(*stored.AssignedAt()))
		e.sink.AssertCalled(t, "Notify", mock.Anything, o.ID(), mock.Anything)
	})

	t.Run("should let a prepaid order be claimed", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)
		_, err := e.orders.ConditionalUpdate(context.Background(), o.ID(), []order.Status{order.Pending}, func(o *order.Order) error {
			return o.MarkGatewayPaid("14012345", now)
		})
		require.NoError(t, err)
		c := e.addCourier(t)

		got, err := claim(t, newAssignToSelfHandler(e), o.ID(), c.ID())

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, got.Status())
		assert.Equal(t, "14012345", got.GatewayTxnRef())
	})

	t.Run("should let exactly one of two simultaneous couriers win", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)
		a, b := e.addCourier(t), e.addCourier(t)
		h := newAssignToSelfHandler(e)

		var wg sync.WaitGroup
		errsByCourier := make(map[kernel.UUID]error, 2)
		var mu sync.Mutex
		for _, id := range []kernel.UUID{a.ID(), b.ID()} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := claim(t, h, o.ID(), id)
				mu.Lock()
				errsByCourier[id] = err
				mu.Unlock()
			}()
		}
		wg.Wait()

		stored := e.reload(t, o.ID())
		require.NotNil(t, stored.Driver())
		winner := *stored.Driver()
		loser := a.ID()
		if winner.IsEqual(a.ID()) {
			loser = b.ID()
		}
		require.True(t, winner.IsEqual(a.ID()) || winner.IsEqual(b.ID()))
		assert.NoError(t, errsByCourier[winner])
		assert.ErrorIs(t, errsByCourier[loser], errs.ErrConflict)
	})

	t.Run("should record one assignee among many concurrent claims", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)
		h := newAssignToSelfHandler(e)

		const couriers = 12
		ids := make([]kernel.UUID, couriers)
		for i := range ids {
			ids[i] = e.addCourier(t).ID()
		}

		results := make([]error, couriers)
		var wg sync.WaitGroup
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = claim(t, h, o.ID(), ids[i])
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range results {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, errs.ErrConflict)
		}
		assert.Equal(t, 1, successes)
		assert.InDelta(t, 1.0, e.counter(t, "orderflow_assignments_total", "self", "assigned"), 0)
		assert.InDelta(t, float64(couriers-1), e.counter(t, "orderflow_assignments_total", "self", "conflict"), 0)
	})

	t.Run("should write once when one courier retries its claim concurrently", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)
		c := e.addCourier(t)
		h := newAssignToSelfHandler(e)

		const retries = 8
		results := make([]error, retries)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = claim(t, h, o.ID(), c.ID())
			}(i)
		}
		wg.Wait()

		for _, err := range results {
			require.NoError(t, err)
		}
		stored := e.reload(t, o.ID())
		assert.Equal(t, order.Assigned, stored.Status())
		assert.True(t, stored.IsDrivenBy(c.ID()))
		assert.InDelta(t, 1.0, e.counter(t, "orderflow_order_transitions_total", "assigned"), 0)
	})

	t.Run("should return the order unchanged when the same courier claims again", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)
		c := e.addCourier(t)
		h := newAssignToSelfHandler(e)
		_, err := claim(t, h, o.ID(), c.ID())
		require.NoError(t, err)
		e.clock.Advance(10 * time.Minute)

		got, err := claim(t, h, o.ID(), c.ID())

		require.NoError(t, err)
		require.NotNil(t, got.AssignedAt())
		assert.True(t, now.Equal(*got.AssignedAt()))
	})

	t.Run("should conflict when another courier holds the order", func(t *testing.T) {
		e := newEnv(t)
		o, _ := e.addAssignedOrder(t, order.Sender, 0)

		_, err := claim(t, newAssignToSelfHandler(e), o.ID(), e.addCourier(t).ID())

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should refuse express orders", func(t *testing.T) {
		e := newEnv(t)
		o := e.addOrder(t, order.Sender, 0, order.Express)

		_, err := claim(t, newAssignToSelfHandler(e), o.ID(), e.addCourier(t).ID())

		require.ErrorIs(t, err, commands.ErrCourierIsNotEligible)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Pending, e.reload(t, o.ID()).Status())
		assert.InDelta(t, 1.0, e.counter(t, "orderflow_assignments_total", "self", "ineligible"), 0)
	})

	t.Run("should refuse inactive couriers", func(t *testing.T) {
		e := newEnv(t)
		o := e.addPendingOrder(t)

		_, err := claim(t, newAssignToSelfHandler(e), o.ID(), e.addInactiveCourier(t).ID())

		require.ErrorIs(t, err, commands.ErrCourierIsNotEligible)
	})

	t.Run("should report unknown order and courier as not found", func(t *testing.T) {
		e := newEnv(t)
		h := newAssignToSelfHandler(e)

		_, err := claim(t, h, kernel.NewUUID(), e.addCourier(t).ID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		_, err = claim(t, h, e.addPendingOrder(t).ID(), kernel.NewUUID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should refuse a zero-value command", func(t *testing.T) {
		e := newEnv(t)

		_, err := newAssignToSelfHandler(e).Handle(context.Background(), commands.AssignToSelfCommand{})

		require.ErrorIs(t, err, commands.ErrAssignToSelfCommandIsNotConstructed)
	})
}

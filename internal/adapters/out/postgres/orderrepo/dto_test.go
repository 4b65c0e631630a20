package orderrepo_test

import (
	"context"
	"testing"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDTO_Version(t *testing.T) {
	ctx := context.Background()

	t.Run("should bump the row version on every applied update", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		store := orderrepo.NewGormOrderStore(db)
		o := testutil.NewPendingOrder(t, order.Receiver, 0, now)
		require.NoError(t, store.Add(ctx, o))

		version := func() int64 {
			var row orderrepo.OrderDTO
			require.NoError(t, db.First(&row, "id = ?", o.ID().Raw()).Error)
			return row.Version
		}
		initial := version()

		driver := kernel.NewUUID()
		_, err := store.ConditionalUpdate(ctx, o.ID(), []order.Status{order.Pending}, assignTo(driver))
		require.NoError(t, err)
		assert.Equal(t, initial+1, version())

		_, err = store.ConditionalUpdate(ctx, o.ID(), []order.Status{order.Pending}, assignTo(driver))
		require.Error(t, err)
		assert.Equal(t, initial+1, version())
	})
}

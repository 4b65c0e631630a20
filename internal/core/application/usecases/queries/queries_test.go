package queries_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db     *gorm.DB
	orders *orderrepo.GormOrderStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return fixture{db: db, orders: orderrepo.NewGormOrderStore(db)}
}

func (f fixture) addOrder(t *testing.T, level order.ServiceLevel, createdAt time.Time) *order.Order {
	t.Helper()
	draft := testutil.NewDraft(t, order.Receiver, 50000)
	draft.ServiceLevel = level
	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateCode(createdAt), kernel.NewUUID(), draft, createdAt)
	require.NoError(t, err)
	require.NoError(t, f.orders.Add(context.Background(), o))
	return o
}

func (f fixture) assign(t *testing.T, o *order.Order, courierID kernel.UUID) {
	t.Helper()
	_, err := f.orders.ConditionalUpdate(
		context.Background(),
		o.ID(),
		[]order.Status{order.Pending, order.GatewayPaid},
		func(o *order.Order) error { return o.AssignTo(courierID, now) },
	)
	require.NoError(t, err)
}

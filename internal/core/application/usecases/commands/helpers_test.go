package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/courierrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/staging"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/metrics"
	"orderflow/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	now     = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	discard = slog.New(slog.DiscardHandler)
)

type MockNotificationSink struct{ mock.Mock }

func (m *MockNotificationSink) Notify(ctx context.Context, orderID kernel.UUID, message string) {
	m.Called(ctx, orderID, message)
}

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderStore) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderStore) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderStore) ConditionalUpdate(
	ctx context.Context,
	id kernel.UUID,
	expected []order.Status,
	mutate ports.Mutator,
) (*order.Order, error) {
	args := m.Called(ctx, id, expected, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

// env wires real sqlite-backed stores the way the composition root does.
type env struct {
	db       *gorm.DB
	orders   *orderrepo.GormOrderStore
	couriers *courierrepo.GormCourierDirectory
	staging  *staging.MemoryStore
	clock    *clock.Manual
	sink     *MockNotificationSink
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	clk := clock.NewManual(now)
	sink := new(MockNotificationSink)
	sink.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	reg := prometheus.NewRegistry()

	return &env{
		db:       db,
		orders:   orderrepo.NewGormOrderStore(db),
		couriers: courierrepo.NewGormCourierDirectory(db),
		staging:  staging.NewMemoryStore(clk),
		clock:    clk,
		sink:     sink,
		registry: reg,
		metrics:  metrics.New(reg),
		logger:   discard,
	}
}

func (e *env) addCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Le Van Tam", "0904000333")
	require.NoError(t, err)
	require.NoError(t, e.couriers.Add(context.Background(), c))
	return c
}

func (e *env) addInactiveCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.RestoreCourier(kernel.NewUUID(), "Pham Thi Hoa", "0905000444", false, 5)
	require.NoError(t, err)
	require.NoError(t, e.couriers.Add(context.Background(), c))
	return c
}

func (e *env) addOrder(t *testing.T, payer order.ShipPayer, cod int64, level order.ServiceLevel) *order.Order {
	t.Helper()
	draft := testutil.NewDraft(t, payer, cod)
	draft.ServiceLevel = level
	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateCode(e.clock.Now()), kernel.NewUUID(), draft, e.clock.Now())
	require.NoError(t, err)
	require.NoError(t, e.orders.Add(context.Background(), o))
	return o
}

func (e *env) addPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	return e.addOrder(t, order.Receiver, 50000, order.Standard)
}

// addAssignedOrder returns a pending order assigned to a fresh courier.
func (e *env) addAssignedOrder(t *testing.T, payer order.ShipPayer, cod int64) (*order.Order, kernel.UUID) {
	t.Helper()
	o := e.addOrder(t, payer, cod, order.Standard)
	c := e.addCourier(t)
	_, err := e.orders.ConditionalUpdate(context.Background(), o.ID(), []order.Status{order.Pending}, func(o *order.Order) error {
		return o.AssignTo(c.ID(), e.clock.Now())
	})
	require.NoError(t, err)
	return o, c.ID()
}

func (e *env) reload(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := e.orders.Get(context.Background(), id)
	require.NoError(t, err)
	return o
}

// counter returns the value of the series of name whose label values are
// values, given in label name order.
func (e *env) counter(t *testing.T, name string, values ...string) float64 {
	t.Helper()
	families, err := e.registry.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := m.GetLabel()
			if len(labels) != len(values) {
				continue
			}
			matched := true
			for i, l := range labels {
				if l.GetValue() != values[i] {
					matched = false
					break
				}
			}
			if matched {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func (e *env) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&orderrepo.OrderDTO{}).Count(&n).Error)
	return n
}

package cmd

import (
	"log/slog"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/gateway/momo"
	"orderflow/internal/adapters/out/gateway/vnpay"
	"orderflow/internal/adapters/out/notify"
	"orderflow/internal/adapters/out/postgres/courierrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/staging"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the adapters and builds every use case handler from them.
type CompositionRoot struct {
	cfg      Config
	gormDB   *gorm.DB
	clock    clock.Clock
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	orders   ports.OrderStore
	couriers ports.CourierDirectory
	staging  ports.StagingStore
	memory   *staging.MemoryStore
	sink     ports.NotificationSink
	vnpay    *vnpay.Gateway
	momo     *momo.Gateway
	auth     *httpin.Authenticator
}

// NewCompositionRoot wires the adapters. redisClient may be nil, in which case
// staging stays in process and notifications go to the log.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	redisClient redis.Cmdable,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	c := clock.NewSystem()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	root := &CompositionRoot{
		cfg:      cfg,
		gormDB:   gormDB,
		clock:    c,
		logger:   logger,
		registry: registry,
		metrics:  metrics.New(registry),
		orders:   orderrepo.NewGormOrderStore(gormDB),
		couriers: courierrepo.NewGormCourierDirectory(gormDB),
	}

	if redisClient != nil {
		root.staging = staging.NewRedisStore(redisClient)
		root.sink = notify.NewRedisNotifier(redisClient, c, logger)
	} else {
		root.memory = staging.NewMemoryStore(c)
		root.staging = root.memory
		root.sink = notify.NewLogNotifier(logger)
	}

	var err error
	root.vnpay, err = vnpay.NewGateway(vnpay.Config{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		PayURL:     cfg.VNPay.PayURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
		Version:    cfg.VNPay.Version,
		Locale:     cfg.VNPay.Locale,
	}, c)
	if err != nil {
		return nil, err
	}

	root.momo, err = momo.NewGateway(momo.Config{
		Endpoint:  cfg.MoMo.Endpoint,
		ReturnURL: cfg.MoMo.ReturnURL,
		Simulate:  cfg.MoMo.Simulate,
		TTL:       cfg.Staging.TTL,
	}, root.staging)
	if err != nil {
		return nil, err
	}

	root.auth, err = httpin.NewAuthenticator(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	return root, nil
}

func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orders, c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	return commands.NewCreateCourierCommandHandler(c.couriers, c.logger)
}

func (c *CompositionRoot) CreateAssignToSelfCommandHandler() commands.AssignToSelfCommandHandler {
	return commands.NewAssignToSelfCommandHandler(c.orders, c.couriers, c.sink, c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateAssignByDispatcherCommandHandler() commands.AssignByDispatcherCommandHandler {
	return commands.NewAssignByDispatcherCommandHandler(c.orders, c.couriers, c.sink, c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateStartShippingCommandHandler() commands.StartShippingCommandHandler {
	return commands.NewStartShippingCommandHandler(c.orders, c.sink, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateRecordDeliveredCommandHandler() commands.RecordDeliveredCommandHandler {
	return commands.NewRecordDeliveredCommandHandler(c.orders, c.sink, c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateRecordFailedCommandHandler() commands.RecordFailedCommandHandler {
	return commands.NewRecordFailedCommandHandler(c.orders, c.sink, c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateConfirmCodCommandHandler() commands.ConfirmCodCommandHandler {
	return commands.NewConfirmCodCommandHandler(c.orders, c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreateBeginRedirectPaymentCommandHandler() commands.BeginRedirectPaymentCommandHandler {
	return commands.NewBeginRedirectPaymentCommandHandler(c.orders, c.vnpay, c.clock, c.logger)
}

func (c *CompositionRoot) CreateHandleRedirectCallbackCommandHandler() commands.HandleRedirectCallbackCommandHandler {
	return commands.NewHandleRedirectCallbackCommandHandler(c.orders, c.vnpay, c.sink, c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateBeginStagedPaymentCommandHandler() commands.BeginStagedPaymentCommandHandler {
	return commands.NewBeginStagedPaymentCommandHandler(c.momo, c.clock, c.logger)
}

func (c *CompositionRoot) CreateMaterializeStagedOrderCommandHandler() commands.MaterializeStagedOrderCommandHandler {
	return commands.NewMaterializeStagedOrderCommandHandler(c.staging, c.orders, c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreateHandleStagedCallbackCommandHandler() commands.HandleStagedCallbackCommandHandler {
	return commands.NewHandleStagedCallbackCommandHandler(
		c.momo, c.staging, c.CreateMaterializeStagedOrderCommandHandler(), c.metrics, c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateTrackOrderQueryHandler() queries.TrackOrderQueryHandler {
	return queries.NewTrackOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

// CreateServer assembles the HTTP adapter from every handler.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:            c.CreateCreateOrderCommandHandler(),
		CreateCourier:          c.CreateCreateCourierCommandHandler(),
		AssignToSelf:           c.CreateAssignToSelfCommandHandler(),
		AssignByDispatcher:     c.CreateAssignByDispatcherCommandHandler(),
		StartShipping:          c.CreateStartShippingCommandHandler(),
		RecordDelivered:        c.CreateRecordDeliveredCommandHandler(),
		RecordFailed:           c.CreateRecordFailedCommandHandler(),
		ConfirmCod:             c.CreateConfirmCodCommandHandler(),
		BeginRedirectPayment:   c.CreateBeginRedirectPaymentCommandHandler(),
		HandleRedirectCallback: c.CreateHandleRedirectCallbackCommandHandler(),
		BeginStagedPayment:     c.CreateBeginStagedPaymentCommandHandler(),
		HandleStagedCallback:   c.CreateHandleStagedCallbackCommandHandler(),
		GetOrder:               c.CreateGetOrderQueryHandler(),
		TrackOrder:             c.CreateTrackOrderQueryHandler(),
		GetAvailableOrders:     c.CreateGetAvailableOrdersQueryHandler(),
	}, c.auth, c.logger)
}

// CreateJobManager schedules the staging sweep when intents live in process.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var scheduled []jobs.Job
	if c.memory != nil {
		scheduled = append(scheduled, jobs.NewStagingSweepJob(
			c.memory, c.cfg.Staging.SweepSchedule, c.clock, c.metrics, c.logger,
		))
	}
	return jobs.NewJobManager(c.logger, scheduled...)
}

package http

import (
	"log/slog"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers are the use cases the API exposes.
type Handlers struct {
	CreateOrder            commands.CreateOrderCommandHandler
	CreateCourier          commands.CreateCourierCommandHandler
	AssignToSelf           commands.AssignToSelfCommandHandler
	AssignByDispatcher     commands.AssignByDispatcherCommandHandler
	StartShipping          commands.StartShippingCommandHandler
	RecordDelivered        commands.RecordDeliveredCommandHandler
	RecordFailed           commands.RecordFailedCommandHandler
	ConfirmCod             commands.ConfirmCodCommandHandler
	BeginRedirectPayment   commands.BeginRedirectPaymentCommandHandler
	HandleRedirectCallback commands.HandleRedirectCallbackCommandHandler
	BeginStagedPayment     commands.BeginStagedPaymentCommandHandler
	HandleStagedCallback   commands.HandleStagedCallbackCommandHandler

	GetOrder           queries.GetOrderQueryHandler
	TrackOrder         queries.TrackOrderQueryHandler
	GetAvailableOrders queries.GetAvailableOrdersQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	auth   *Authenticator
	logger *slog.Logger
}

func NewServer(h Handlers, auth *Authenticator, logger *slog.Logger) *Server {
	return &Server{
		h:      h,
		auth:   auth,
		logger: logger.With("component", "http"),
	}
}

// NewEcho returns an echo instance with request logging, panic recovery,
// validation and the error mapping installed.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(logger)

	access := logger.With("component", "http_access")
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			access.LogAttrs(c.Request().Context(), level, "Request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	}))
	return e
}

// Register mounts every route on e. gatherer backs /metrics.
func (s *Server) Register(e *echo.Echo, gatherer prometheus.Gatherer) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1")
	api.GET("/tracking/:code", s.TrackOrder)
	api.GET("/payments/vnpay/return", s.VNPayReturn)
	api.GET("/payments/vnpay/ipn", s.VNPayIPN)

	authed := api.Group("", s.auth.Middleware())
	customer := RequireRole(queries.RoleCustomer)
	courier := RequireRole(queries.RoleCourier)
	dispatcher := RequireRole(queries.RoleDispatcher)

	authed.POST("/orders", s.CreateOrder, customer)
	authed.GET("/orders/available", s.GetAvailableOrders, courier)
	authed.GET("/orders/:id", s.GetOrder)
	authed.POST("/orders/:id/claim", s.ClaimOrder, courier)
	authed.POST("/orders/:id/ship", s.StartShipping, courier)
	authed.POST("/orders/:id/delivered", s.RecordDelivered, courier)
	authed.POST("/orders/:id/failed", s.RecordFailed, courier)

	authed.POST("/payments/vnpay", s.BeginVNPayPayment, customer)
	authed.POST("/payments/momo", s.BeginMoMoPayment, customer)
	authed.GET("/payments/momo/return", s.MoMoReturn, customer)

	admin := authed.Group("/admin", dispatcher)
	admin.POST("/orders/:id/assign", s.AssignOrder)
	admin.POST("/orders/:id/confirm-cod", s.ConfirmCod)
	admin.POST("/couriers", s.CreateCourier)
}

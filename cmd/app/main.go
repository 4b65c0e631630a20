package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"orderflow/cmd"
	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	logger := newLogger(configs.LogLevel)

	gormDB, err := postgres.Open(postgres.ConnectionConfig{
		Host:         configs.DB.Host,
		Port:         configs.DB.Port,
		User:         configs.DB.User,
		Password:     configs.DB.Password,
		Name:         configs.DB.Name,
		SSLMode:      configs.DB.SSLMode,
		MaxOpenConns: configs.DB.MaxOpenConns,
		MaxIdleConns: configs.DB.MaxIdleConns,
		ConnMaxLife:  configs.DB.ConnMaxLife,
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	var redisClient redis.Cmdable
	if configs.Redis.Enabled {
		client, err := connectRedis(configs.Redis)
		if err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
		defer client.Close()
		redisClient = client
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func connectRedis(cfg cmd.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// startWebServer blocks until SIGINT or SIGTERM, then drains in-flight requests.
func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := httpin.NewEcho(logger)
	app.CreateServer().Register(e, app.Registry())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()
	logger.Info("HTTP server started", "port", port)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		return
	}
	logger.Info("HTTP server stopped")
}

// Package notify publishes order change notifications.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "orderflow:orders"

var (
	_ ports.NotificationSink = (*RedisNotifier)(nil)
	_ ports.NotificationSink = (*LogNotifier)(nil)
)

// Event is the JSON payload published for every notification.
type Event struct {
	OrderID string    `json:"orderId"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisNotifier publishes each notification on the order's channel and on the
// shared firehose channel. Publish errors are logged and dropped.
type RedisNotifier struct {
	client publisher
	clock  clock.Clock
	logger *slog.Logger
}

func NewRedisNotifier(client redis.Cmdable, c clock.Clock, logger *slog.Logger) *RedisNotifier {
	return &RedisNotifier{
		client: client,
		clock:  c,
		logger: logger.With("component", "redis_notifier"),
	}
}

func (n *RedisNotifier) Notify(ctx context.Context, orderID kernel.UUID, message string) {
	payload, err := json.Marshal(Event{
		OrderID: orderID.String(),
		Message: message,
		At:      n.clock.Now(),
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to encode notification", "order_id", orderID.String(), "error", err)
		return
	}

	for _, channel := range []string{Channel(orderID), channelPrefix} {
		if err = n.client.Publish(ctx, channel, payload).Err(); err != nil {
			n.logger.WarnContext(ctx, "Failed to publish notification",
				"order_id", orderID.String(),
				"channel", channel,
				"error", err,
			)
		}
	}
}

// Channel returns the pub/sub channel carrying one order's notifications.
func Channel(orderID kernel.UUID) string {
	return strings.Join([]string{channelPrefix, orderID.String()}, ":")
}

// LogNotifier writes notifications to the structured log. It is used when
// Redis is disabled.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, orderID kernel.UUID, message string) {
	n.logger.InfoContext(ctx, message, "order_id", orderID.String())
}

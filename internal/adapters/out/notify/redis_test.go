package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/adapters/out/notify"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/clock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestRedisNotifier_Notify(t *testing.T) {
	t.Run("should publish the event on the order channel", func(t *testing.T) {
		srv := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		ctx := context.Background()
		orderID := kernel.NewUUID()
		sub := client.Subscribe(ctx, notify.Channel(orderID))
		t.Cleanup(func() { _ = sub.Close() })
		_, err := sub.Receive(ctx)
		require.NoError(t, err)

		n := notify.NewRedisNotifier(client, clock.NewFixed(now), slog.New(slog.DiscardHandler))
		n.Notify(ctx, orderID, "order assigned")

		msg, err := sub.ReceiveMessage(ctx)
		require.NoError(t, err)

		var event notify.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, orderID.String(), event.OrderID)
		assert.Equal(t, "order assigned", event.Message)
		assert.True(t, now.Equal(event.At))
	})

	t.Run("should log and swallow publish errors", func(t *testing.T) {
		srv := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = client.Close() })
		srv.Close()

		var buf bytes.Buffer
		n := notify.NewRedisNotifier(client, clock.NewFixed(now), slog.New(slog.NewTextHandler(&buf, nil)))

		assert.NotPanics(t, func() {
			n.Notify(context.Background(), kernel.NewUUID(), "order assigned")
		})
		assert.Contains(t, buf.String(), "Failed to publish notification")
	})
}

func TestLogNotifier_Notify(t *testing.T) {
	t.Run("should write the message with the order id", func(t *testing.T) {
		var buf bytes.Buffer
		orderID := kernel.NewUUID()

		notify.NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil))).
			Notify(context.Background(), orderID, "order delivered")

		assert.Contains(t, buf.String(), "order delivered")
		assert.Contains(t, buf.String(), orderID.String())
		assert.Contains(t, buf.String(), "component=log_notifier")
	})
}

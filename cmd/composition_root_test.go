package cmd

import (
	"io"
	"log/slog"
	"testing"

	"orderflow/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Staging: StagingConfig{SweepSchedule: "0 * * * * *"},
		VNPay: VNPayConfig{
			TmnCode:    "DEMO0001",
			HashSecret: "SECRET",
			PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:  "http://localhost:8080/api/v1/payments/vnpay/return",
		},
		MoMo: MoMoConfig{
			ReturnURL: "http://localhost:8080/api/v1/payments/momo/return",
			Simulate:  true,
		},
		Auth: AuthConfig{JWTSecret: "jwt-secret"},
	}
}

func TestCompositionRoot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("should schedule the sweep with in-process staging", func(t *testing.T) {
		root, err := NewCompositionRoot(testConfig(), testutil.NewSQLiteDB(t), nil, logger)
		require.NoError(t, err)

		assert.NotNil(t, root.CreateServer())
		assert.Equal(t, 1, root.CreateJobManager().Len())
	})

	t.Run("should skip the sweep when staging lives in redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		root, err := NewCompositionRoot(testConfig(), testutil.NewSQLiteDB(t), client, logger)
		require.NoError(t, err)

		assert.Zero(t, root.CreateJobManager().Len())
	})

	t.Run("should expose collectors on the registry", func(t *testing.T) {
		root, err := NewCompositionRoot(testConfig(), testutil.NewSQLiteDB(t), nil, logger)
		require.NoError(t, err)

		families, err := root.Registry().Gather()
		require.NoError(t, err)
		assert.NotEmpty(t, families)
	})

	t.Run("should reject an incomplete gateway configuration", func(t *testing.T) {
		cfg := testConfig()
		cfg.VNPay.HashSecret = ""

		_, err := NewCompositionRoot(cfg, testutil.NewSQLiteDB(t), nil, logger)

		assert.Error(t, err)
	})
}

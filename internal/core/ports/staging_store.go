package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/payment"
)

// StagingStore keeps staged payment intents for a bounded time.
type StagingStore interface {
	// Stage stores the intent under token for ttl.
	Stage(ctx context.Context, token string, intent payment.Intent, ttl time.Duration) error

	// Take atomically reads and deletes the intent. The first caller wins; every
	// later caller, and any caller after expiry, gets an ExpiredIntentError.
	Take(ctx context.Context, token string) (payment.Intent, error)

	// Discard deletes the intent if present.
	Discard(ctx context.Context, token string) error
}

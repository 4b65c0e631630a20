// Package staging keeps staged payment intents until the gateway reports back.
package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace  = "orderflow"
	stagingPrefix = "staging"
)

var _ ports.StagingStore = (*RedisStore)(nil)

type cmdable interface {
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	GetDel(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore keeps intents as JSON values with a native key TTL.
// Take relies on GETDEL, so only one caller ever receives a given intent.
type RedisStore struct {
	store cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{store: client}
}

// Stage stores the intent under token for ttl.
func (s *RedisStore) Stage(ctx context.Context, token string, intent payment.Intent, ttl time.Duration) error {
	if token == "" {
		return errs.NewValueIsRequiredError("token")
	}
	if ttl <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("ttl", errors.New("must be positive"))
	}

	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	if err = s.store.Set(ctx, Key(token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("stage intent: %w", err)
	}
	return nil
}

// Take reads and deletes the intent in one command.
func (s *RedisStore) Take(ctx context.Context, token string) (payment.Intent, error) {
	raw, err := s.store.GetDel(ctx, Key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return payment.Intent{}, errs.NewExpiredIntentError(token)
		}
		return payment.Intent{}, fmt.Errorf("take intent: %w", err)
	}

	var intent payment.Intent
	if err = json.Unmarshal(raw, &intent); err != nil {
		return payment.Intent{}, fmt.Errorf("decode intent: %w", err)
	}
	return intent, nil
}

func (s *RedisStore) Discard(ctx context.Context, token string) error {
	if err := s.store.Del(ctx, Key(token)).Err(); err != nil {
		return fmt.Errorf("discard intent: %w", err)
	}
	return nil
}

// Key returns the namespaced redis key for a staging token.
func Key(token string) string {
	return strings.Join([]string{keyNamespace, stagingPrefix, token}, ":")
}

package staging

import (
	"context"
	"errors"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

var _ ports.StagingStore = (*MemoryStore)(nil)

type entry struct {
	intent    payment.Intent
	expiresAt time.Time
}

// MemoryStore is a single-process StagingStore. Expired entries are invisible
// to Take and are dropped by PurgeExpired.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   clock.Clock
}

func NewMemoryStore(c clock.Clock) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		clock:   c,
	}
}

func (s *MemoryStore) Stage(_ context.Context, token string, intent payment.Intent, ttl time.Duration) error {
	if token == "" {
		return errs.NewValueIsRequiredError("token")
	}
	if ttl <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("ttl", errors.New("must be positive"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = entry{intent: intent, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Take(_ context.Context, token string) (payment.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return payment.Intent{}, errs.NewExpiredIntentError(token)
	}
	delete(s.entries, token)

	if !s.clock.Now().Before(e.expiresAt) {
		return payment.Intent{}, errs.NewExpiredIntentError(token)
	}
	return e.intent, nil
}

func (s *MemoryStore) Discard(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

// PurgeExpired drops every expired entry and returns how many were removed.
func (s *MemoryStore) PurgeExpired(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	removed := 0
	for token, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

package idempotency

import (
	"context"
	"sync"
	"time"
)

// FailoverStore использует fallback, пока основной store недоступен
type FailoverStore struct {
	primary  Store
	fallback Store
	logger   Logger
	retry    time.Duration

	mu        sync.Mutex
	downSince time.Time
}

func NewFailoverStore(primary, fallback Store, logger Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		retry:    time.Minute,
	}
}

func (s *FailoverStore) Reserve(ctx context.Context, key string) (int64, bool, error) {
	if s.usePrimary() {
		id, reserved, err := s.primary.Reserve(ctx, key)
		if !isStoreFailure(err) {
			return id, reserved, err
		}
		s.markDown(err)
	}
	return s.fallback.Reserve(ctx, key)
}

func (s *FailoverStore) Complete(ctx context.Context, key string, id int64) error {
	if s.usePrimary() {
		err := s.primary.Complete(ctx, key, id)
		if err == nil {
			return nil
		}
		s.markDown(err)
	}
	return s.fallback.Complete(ctx, key, id)
}

func (s *FailoverStore) Release(ctx context.Context, key string) error {
	// ключ мог быть зарезервирован в любом из хранилищ
	_ = s.fallback.Release(ctx, key)
	if s.usePrimary() {
		if err := s.primary.Release(ctx, key); err != nil {
			s.markDown(err)
		}
	}
	return nil
}

func (s *FailoverStore) usePrimary() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.downSince.IsZero() {
		return true
	}
	if time.Since(s.downSince) > s.retry {
		s.downSince = time.Time{}
		return true
	}
	return false
}

func (s *FailoverStore) markDown(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.downSince.IsZero() {
		s.logger.Error("Idempotency: primary store failed, falling back to memory: %v", err)
	}
	s.downSince = time.Now()
}

func isStoreFailure(err error) bool {
	return err != nil && err != ErrInProgress
}

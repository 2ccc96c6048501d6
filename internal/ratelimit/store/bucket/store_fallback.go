package bucket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"profiles/internal/ratelimit/models"
	"profiles/pkg/platform/circuit"
)

const defaultRetryInterval = 5 * time.Second

// Store is the bucket surface shared by the Redis and in-memory stores.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
}

// FallbackStore routes to a primary store and switches to process-local
// buckets while the primary keeps failing. Isolated primary errors are
// returned to the caller; only a sustained outage opens the breaker.
//
// While the breaker is open the primary is left alone except for one trial
// request per retry interval. A successful trial lets the next request try
// the primary as well, so recovery does not wait a full interval per success.
type FallbackStore struct {
	primary       Store
	fallback      *InMemoryBucketStore
	breaker       *circuit.Breaker
	logger        *slog.Logger
	retryInterval time.Duration
	now           func() time.Time

	mu        sync.Mutex
	nextTrial time.Time
}

type FallbackOption func(*FallbackStore)

func WithBreaker(b *circuit.Breaker) FallbackOption {
	return func(s *FallbackStore) {
		s.breaker = b
	}
}

func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(s *FallbackStore) {
		s.logger = logger
	}
}

// WithRetryInterval sets how often the primary is retried while the breaker is open.
func WithRetryInterval(d time.Duration) FallbackOption {
	return func(s *FallbackStore) {
		if d > 0 {
			s.retryInterval = d
		}
	}
}

func WithFallbackClock(now func() time.Time) FallbackOption {
	return func(s *FallbackStore) {
		s.now = now
	}
}

func NewFallbackStore(primary Store, opts ...FallbackOption) *FallbackStore {
	s := &FallbackStore{
		primary:       primary,
		fallback:      NewInMemoryBucketStore(),
		breaker:       circuit.New("ratelimit-buckets"),
		logger:        slog.Default(),
		retryInterval: defaultRetryInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FallbackStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

func (s *FallbackStore) AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error) {
	if s.breaker.IsOpen() && !s.claimTrial() {
		return s.fallback.AllowN(ctx, key, cost, limit, window)
	}

	result, err := s.primary.AllowN(ctx, key, cost, limit, window)
	if err == nil {
		s.recordSuccess(ctx)
		return result, nil
	}
	if !s.recordFailure(ctx, err) {
		return nil, err
	}
	return s.fallback.AllowN(ctx, key, cost, limit, window)
}

// Reset clears both stores so a reset survives a breaker transition.
func (s *FallbackStore) Reset(ctx context.Context, key string) error {
	_ = s.fallback.Reset(ctx, key)
	return s.primary.Reset(ctx, key)
}

// Degraded reports whether requests are being served from local buckets.
func (s *FallbackStore) Degraded() bool {
	return s.breaker.IsOpen()
}

// claimTrial grants at most one primary attempt per retry interval.
func (s *FallbackStore) claimTrial() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.Before(s.nextTrial) {
		return false
	}
	s.nextTrial = now.Add(s.retryInterval)
	return true
}

func (s *FallbackStore) recordSuccess(ctx context.Context) {
	wasOpen := s.breaker.IsOpen()
	_, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.logger.InfoContext(ctx, "rate limit store recovered, leaving local fallback",
			"breaker", s.breaker.Name())
	}
	if wasOpen {
		s.mu.Lock()
		s.nextTrial = time.Time{}
		s.mu.Unlock()
	}
}

func (s *FallbackStore) recordFailure(ctx context.Context, err error) bool {
	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "rate limit store failing, switching to local fallback",
			"breaker", s.breaker.Name(),
			"error", err,
		)
		s.mu.Lock()
		s.nextTrial = s.now().Add(s.retryInterval)
		s.mu.Unlock()
	}
	return useFallback
}

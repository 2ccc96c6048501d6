package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"profiles/internal/platform/config"
	"profiles/internal/ratelimit/metrics"
	"profiles/internal/ratelimit/models"
	"profiles/internal/ratelimit/observability"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/audit"
)

// retryAfterMissingLimit is returned when an action has no configured limit.
const retryAfterMissingLimit = time.Minute

// Limiter admits or rejects callers per action.
type Limiter struct {
	buckets        BucketStore
	limits         map[models.Action]models.Limit
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(l *Limiter) {
		l.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// LimitsFromConfig maps process configuration onto per-action limits.
func LimitsFromConfig(cfg config.RateLimitConfig) map[models.Action]models.Limit {
	return map[models.Action]models.Limit{
		models.ActionProfileFetch:   {Requests: cfg.ProfileFetch.Requests, Window: cfg.ProfileFetch.Window},
		models.ActionProfileSet:     {Requests: cfg.ProfileSet.Requests, Window: cfg.ProfileSet.Window},
		models.ActionUsernameLookup: {Requests: cfg.UsernameLookup.Requests, Window: cfg.UsernameLookup.Window},
	}
}

func New(buckets BucketStore, limits map[models.Action]models.Limit, opts ...Option) (*Limiter, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}
	for action, limit := range limits {
		if !action.IsValid() {
			return nil, fmt.Errorf("unknown rate limit action %q", action)
		}
		if err := limit.Validate(); err != nil {
			return nil, fmt.Errorf("limit for %s: %w", action, err)
		}
	}

	l := &Limiter{
		buckets: buckets,
		limits:  limits,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Validate consumes one slot of caller's bucket for action. It returns a
// CodeRateLimited error carrying the retry-after hint when the bucket is
// full. Bucket store failures let the request through.
func (l *Limiter) Validate(ctx context.Context, action models.Action, caller id.AccountID) error {
	limit, ok := l.limits[action]
	if !ok {
		observability.LogAudit(ctx, l.logger, l.auditPublisher, audit.EventRateLimitExceeded, caller,
			"action", string(action),
			"reason", "limit_not_configured",
		)
		return dErrors.RateLimited(retryAfterMissingLimit)
	}

	key := models.NewKey(action, caller.String())
	result, err := l.buckets.Allow(ctx, key.String(), limit.Requests, limit.Window)
	if err != nil {
		l.metrics.IncrementStoreError(string(action))
		l.logger.WarnContext(ctx, "rate limit check failed, allowing request",
			"action", string(action),
			"error", err,
		)
		return nil
	}
	if result.Allowed {
		return nil
	}

	l.metrics.IncrementRejection(string(action))
	observability.LogAudit(ctx, l.logger, l.auditPublisher, audit.EventRateLimitExceeded, caller,
		"action", string(action),
		"limit", limit.Requests,
		"window_seconds", int(limit.Window.Seconds()),
	)
	return dErrors.RateLimited(retryAfterSeconds(result.RetryAfter))
}

// Reset clears caller's bucket for action.
func (l *Limiter) Reset(ctx context.Context, action models.Action, caller id.AccountID) error {
	key := models.NewKey(action, caller.String())
	if err := l.buckets.Reset(ctx, key.String()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset rate limit")
	}
	return nil
}

// retryAfterSeconds rounds up to whole seconds, never below one.
func retryAfterSeconds(d time.Duration) time.Duration {
	rounded := ((d + time.Second - 1) / time.Second) * time.Second
	if rounded < time.Second {
		return time.Second
	}
	return rounded
}

package service

import (
	"context"
	"time"

	"profiles/internal/ratelimit/models"
	"profiles/internal/ratelimit/observability"
)

// BucketStore defines the persistence interface for sliding window counters.
// Keys are opaque strings built with models.NewKey.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
}

type AuditPublisher = observability.AuditPublisher

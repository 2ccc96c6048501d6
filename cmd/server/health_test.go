package main

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profiles/internal/ratelimit/models"
	"profiles/internal/ratelimit/store/bucket"
	"profiles/pkg/platform/circuit"
)

type unreachableBuckets struct{}

func (unreachableBuckets) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (unreachableBuckets) AllowN(context.Context, string, int, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (unreachableBuckets) Reset(context.Context, string) error { return nil }

func TestHealthStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("ok without backing services", func(t *testing.T) {
		status, body := (&application{}).healthStatus(ctx)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("rate limiter on local buckets reports degraded", func(t *testing.T) {
		app := &application{
			buckets: bucket.NewFallbackStore(unreachableBuckets{},
				bucket.WithBreaker(circuit.New("test", circuit.WithFailureThreshold(1)))),
		}
		_, err := app.buckets.Allow(ctx, "ratelimit:profile_fetch:caller", 5, time.Minute)
		require.NoError(t, err)

		status, body := app.healthStatus(ctx)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "local_fallback", body["ratelimit"])
	})
}

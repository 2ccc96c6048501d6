package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"profiles/internal/profile/models"
	id "profiles/pkg/domain"
)

// Store is the persistence contract the cache wraps.
type Store interface {
	Get(ctx context.Context, accountID id.AccountID, version string) (*models.VersionedProfile, error)
	Set(ctx context.Context, accountID id.AccountID, profile *models.VersionedProfile) error
}

const (
	cacheKeyPrefix = "profiles::"
	// stampField counts writes to the account. Versions are hex so it
	// cannot collide with a version field.
	stampField = "_stamp"
)

// fillScript writes a cache entry only if no Set happened since the
// stamp was read alongside the miss.
var fillScript = redis.NewScript(`
local stamp = redis.call('HGET', KEYS[1], ARGV[1])
if stamp == false then stamp = '' end
if stamp ~= ARGV[2] then return 0 end
redis.call('HSET', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// CachedStore is a Redis read-through cache in front of a Store. All
// versions of one account live in a single hash together with a write
// stamp. Cache failures are logged and the backing store answers instead.
type CachedStore struct {
	backing Store
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
}

type CachedStoreOption func(*CachedStore)

func WithCacheLogger(logger *slog.Logger) CachedStoreOption {
	return func(c *CachedStore) {
		c.logger = logger
	}
}

func NewCachedStore(backing Store, client *redis.Client, ttl time.Duration, opts ...CachedStoreOption) *CachedStore {
	c := &CachedStore{
		backing: backing,
		client:  client,
		ttl:     ttl,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(accountID id.AccountID) string {
	return cacheKeyPrefix + accountID.String()
}

func (c *CachedStore) Get(ctx context.Context, accountID id.AccountID, version string) (*models.VersionedProfile, error) {
	key := cacheKey(accountID)
	stamp, fillable := "", true
	vals, err := c.client.HMGet(ctx, key, version, stampField).Result()
	if err != nil {
		c.logger.WarnContext(ctx, "profile cache read failed", "account_id", accountID.String(), "error", err)
		fillable = false
	} else {
		if raw, ok := vals[0].(string); ok {
			var p models.VersionedProfile
			if jsonErr := json.Unmarshal([]byte(raw), &p); jsonErr == nil {
				return &p, nil
			}
			c.logger.WarnContext(ctx, "discarding undecodable cached profile", "account_id", accountID.String())
		}
		stamp, _ = vals[1].(string)
	}

	p, err := c.backing.Get(ctx, accountID, version)
	if err != nil {
		return nil, err
	}
	if fillable {
		c.fill(ctx, key, stamp, p)
	}
	return p, nil
}

func (c *CachedStore) fill(ctx context.Context, key, stamp string, p *models.VersionedProfile) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	err = fillScript.Run(ctx, c.client, []string{key},
		stampField, stamp, p.Version, raw, c.ttl.Milliseconds()).Err()
	if err != nil {
		c.logger.WarnContext(ctx, "profile cache fill failed", "error", err)
	}
}

// Set writes through to the backing store, evicts the cached version and
// bumps the stamp so reads that started earlier do not fill stale data.
func (c *CachedStore) Set(ctx context.Context, accountID id.AccountID, profile *models.VersionedProfile) error {
	if err := c.backing.Set(ctx, accountID, profile); err != nil {
		return err
	}
	key := cacheKey(accountID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, key, profile.Version)
		pipe.HIncrBy(ctx, key, stampField, 1)
		pipe.PExpire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "profile cache eviction failed", "account_id", accountID.String(), "error", err)
	}
	return nil
}

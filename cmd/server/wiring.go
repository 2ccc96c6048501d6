package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	accountmodels "profiles/internal/account/models"
	accountstore "profiles/internal/account/store"
	"profiles/internal/avatar"
	"profiles/internal/avatar/blob"
	"profiles/internal/badge"
	"profiles/internal/credential"
	"profiles/internal/credential/local"
	"profiles/internal/dynconfig"
	"profiles/internal/identitycheck"
	"profiles/internal/platform/config"
	"profiles/internal/platform/kafka"
	"profiles/internal/platform/postgres"
	"profiles/internal/platform/redis"
	profilemetrics "profiles/internal/profile/metrics"
	profileservice "profiles/internal/profile/service"
	profilestore "profiles/internal/profile/store"
	ratelimitmetrics "profiles/internal/ratelimit/metrics"
	ratelimitservice "profiles/internal/ratelimit/service"
	"profiles/internal/ratelimit/store/bucket"
	audit "profiles/pkg/platform/audit"
	"profiles/pkg/platform/audit/publisher"
	kafkaaudit "profiles/pkg/platform/audit/store/kafka"
	auditmemory "profiles/pkg/platform/audit/store/memory"
	auditpostgres "profiles/pkg/platform/audit/store/postgres"
)

const auditBufferSize = 1024

// accountDirectory is the account store surface used across components.
type accountDirectory interface {
	profileservice.AccountStore
	identitycheck.AccountFinder
}

type application struct {
	db       *sql.DB
	redis    *redis.Client
	kafka    *kgo.Client
	relay    *auditpostgres.Relay
	dynamic  *dynconfig.Manager
	audit    *publisher.Publisher
	avatars  *avatar.Manager
	accounts accountDirectory
	// saveAccount upserts directory entries for demo seeding.
	saveAccount func(context.Context, *accountmodels.Account) error
	profiles    *profileservice.Service
	limiter     *ratelimitservice.Limiter
	buckets     *bucket.FallbackStore

	cancelBackground context.CancelFunc
}

// build opens infrastructure from cfg and assembles the profile service.
// Each backing service is optional: without it the in-process variant is used.
func build(ctx context.Context, cfg config.Server, log *slog.Logger) (*application, error) {
	app := &application{}

	var err error
	if cfg.Database.URL != "" {
		app.db, err = postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, app.db); err != nil {
			return nil, err
		}
	}
	app.redis, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	app.kafka, err = kafka.NewClient(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	auditStore, err := app.auditStore(ctx, cfg.Kafka, log)
	if err != nil {
		return nil, err
	}
	sampler := publisher.NewSampler(cfg.Audit.OpsSampleRate)
	for action, rate := range cfg.Audit.ActionSampleRates {
		sampler.SetRate(action, rate)
	}
	app.audit = publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithSampler(sampler),
		publisher.WithLogger(log),
	)

	accounts, profiles := app.stores(cfg.Redis, log)
	app.accounts = accounts

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app.dynamic, err = dynconfig.Load(cfg.DynamicConfigPath, dynconfig.WithLogger(log))
	if err != nil {
		return nil, err
	}
	catalog := badge.NewCatalog()
	if cfg.BadgeCatalogPath != "" {
		catalog, err = badge.LoadCatalog(cfg.BadgeCatalogPath)
		if err != nil {
			return nil, err
		}
	}

	metrics := profilemetrics.New()
	app.avatars, err = avatar.New(blobs,
		avatar.WithLogger(log),
		avatar.WithMetrics(metrics),
		avatar.WithAuditPublisher(app.audit),
	)
	if err != nil {
		return nil, err
	}

	issuer, err := local.New([]byte(cfg.CredentialSecret))
	if err != nil {
		return nil, err
	}
	gate, err := credential.NewGate(accounts, profiles, issuer)
	if err != nil {
		return nil, err
	}
	verifier, err := identitycheck.New(accounts)
	if err != nil {
		return nil, err
	}

	var buckets ratelimitservice.BucketStore = bucket.NewInMemoryBucketStore()
	if app.redis != nil {
		app.buckets = bucket.NewFallbackStore(bucket.NewRedisBucketStore(app.redis.Client),
			bucket.WithFallbackLogger(log))
		buckets = app.buckets
	}
	app.limiter, err = ratelimitservice.New(buckets, ratelimitservice.LimitsFromConfig(cfg.RateLimit),
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(ratelimitmetrics.New()),
		ratelimitservice.WithAuditPublisher(app.audit),
	)
	if err != nil {
		return nil, err
	}

	app.profiles, err = profileservice.New(accounts, profiles, app.avatars, gate, verifier, app.limiter,
		profileservice.WithLogger(log),
		profileservice.WithMetrics(metrics),
		profileservice.WithAuditPublisher(app.audit),
		profileservice.WithBadgeCatalog(catalog),
		profileservice.WithDynamicConfig(app.dynamic),
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// auditStore picks the audit sink: a Postgres outbox relayed to Kafka when a
// database is configured, Kafka directly when only brokers are, otherwise
// process memory.
func (app *application) auditStore(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (audit.Store, error) {
	var producer *kafkaaudit.Store
	if app.kafka != nil {
		if err := kafka.EnsureTopic(ctx, app.kafka, cfg.AuditTopic, cfg.TopicPartitions, cfg.ReplicationFactor); err != nil {
			return nil, err
		}
		producer = kafkaaudit.New(app.kafka, cfg.AuditTopic)
	}
	switch {
	case app.db != nil:
		if producer != nil {
			app.relay = auditpostgres.NewRelay(app.db, producer, auditpostgres.WithRelayLogger(log))
		} else {
			log.Warn("audit outbox has no kafka relay; events stay in postgres")
		}
		return auditpostgres.New(app.db), nil
	case producer != nil:
		return producer, nil
	default:
		return auditmemory.NewInMemoryStore(), nil
	}
}

func (app *application) stores(cfg config.RedisConfig, log *slog.Logger) (accountDirectory, profileservice.ProfileStore) {
	var (
		accounts accountDirectory
		profiles profilestore.Store
	)
	if app.db != nil {
		pgAccounts := accountstore.NewPostgresAccountStore(app.db)
		accounts = pgAccounts
		app.saveAccount = pgAccounts.Save
		profiles = profilestore.NewPostgresProfileStore(app.db)
	} else {
		memAccounts := accountstore.NewInMemoryAccountStore()
		accounts = memAccounts
		app.saveAccount = memAccounts.Save
		profiles = profilestore.NewInMemoryProfileStore()
	}
	if app.redis != nil {
		profiles = profilestore.NewCachedStore(profiles, app.redis.Client, cfg.ProfileCacheTTL,
			profilestore.WithCacheLogger(log))
	}
	return accounts, profiles
}

func newBlobStore(ctx context.Context, cfg config.Server) (blob.Store, error) {
	if cfg.DemoMode || (cfg.S3.BaseEndpoint == "" && cfg.S3.AccessKey == "") {
		return blob.NewMemoryStore(cfg.S3.UploadTTL), nil
	}
	return blob.NewS3Store(ctx, cfg.S3)
}

// start launches background loops: dynamic config watching and the audit
// outbox relay.
func (app *application) start(ctx context.Context) {
	app.dynamic.Watch()
	if app.relay == nil {
		return
	}
	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	app.cancelBackground = cancel
	go func() {
		if err := app.relay.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Default().Error("audit relay stopped", "error", err)
		}
	}()
}

func (app *application) health(ctx context.Context) error {
	if app.db != nil {
		if err := app.db.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// healthStatus maps health to a response. A rate limiter running on local
// buckets still serves traffic, so it reports degraded with 200.
func (app *application) healthStatus(ctx context.Context) (int, map[string]string) {
	if err := app.health(ctx); err != nil {
		return http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()}
	}
	if app.buckets != nil && app.buckets.Degraded() {
		return http.StatusOK, map[string]string{"status": "degraded", "ratelimit": "local_fallback"}
	}
	return http.StatusOK, map[string]string{"status": "ok"}
}

// close waits for in-flight avatar deletions, flushes audit events and
// releases connections, in that order.
func (app *application) close(log *slog.Logger) {
	app.avatars.Wait()
	app.audit.Close()
	if app.cancelBackground != nil {
		app.cancelBackground()
	}
	if app.kafka != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.kafka.Flush(flushCtx); err != nil {
			log.Warn("kafka flush failed", "error", err)
		}
		cancel()
		app.kafka.Close()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			log.Warn("database close failed", "error", err)
		}
	}
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Producer publishes one keyed message.
type Producer interface {
	Produce(ctx context.Context, key string, value []byte) error
}

// Relay moves unpublished outbox rows to a Producer. Rows are claimed with
// SKIP LOCKED so several replicas can relay concurrently; a row is marked
// published only after the producer acknowledged it, giving at-least-once
// delivery.
type Relay struct {
	db        *sql.DB
	producer  Producer
	batchSize int
	interval  time.Duration
	logger    *slog.Logger
}

type RelayOption func(*Relay)

func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithPollInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
	}
}

func NewRelay(db *sql.DB, producer Producer, opts ...RelayOption) *Relay {
	r := &Relay{
		db:        db,
		producer:  producer,
		batchSize: 100,
		interval:  time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays batches until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		for {
			n, err := r.PublishBatch(ctx)
			if err != nil {
				r.logger.ErrorContext(ctx, "audit outbox relay failed", "error", err)
				break
			}
			if n < r.batchSize {
				break
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PublishBatch relays up to one batch and returns how many rows it published.
func (r *Relay) PublishBatch(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin relay transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, account_id, payload FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("claim outbox rows: %w", err)
	}

	type entry struct {
		id      uuid.UUID
		key     string
		payload []byte
	}
	var entries []entry
	for rows.Next() {
		var (
			e         entry
			accountID uuid.NullUUID
		)
		if err := rows.Scan(&e.id, &accountID, &e.payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		if accountID.Valid {
			e.key = accountID.UUID.String()
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	published := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := r.producer.Produce(ctx, e.key, e.payload); err != nil {
			// publish what already went out; the rest is retried next round
			r.logger.WarnContext(ctx, "audit outbox produce failed", "error", err)
			break
		}
		published = append(published, e.id.String())
	}
	if len(published) == 0 {
		return 0, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE audit_outbox SET published_at = NOW() WHERE id = ANY($1::uuid[])`,
		pq.Array(published)); err != nil {
		return 0, fmt.Errorf("mark outbox rows published: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit relay transaction: %w", err)
	}
	return len(published), nil
}

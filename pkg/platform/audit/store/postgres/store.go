// Package postgres implements the audit store as a transactional outbox.
// Events are written to audit_outbox in the caller's transaction when one
// is present, and a Relay forwards them to the message broker.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	audit "profiles/pkg/platform/audit"
	txcontext "profiles/pkg/platform/tx"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append writes an event to the outbox.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	// the category map is authoritative over whatever the caller set
	event.Category = audit.AuditEvent(event.Action).Category()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	var accountID *uuid.UUID
	if !event.AccountID.IsNil() {
		u := uuid.UUID(event.AccountID)
		accountID = &u
	}

	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_outbox (id, account_id, action, category, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), accountID, event.Action, string(event.Category), payload, event.Timestamp)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

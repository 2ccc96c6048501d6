// Package worker drains queued audit events into a store.
package worker

import (
	"context"
	"log/slog"

	audit "profiles/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. A store
// failure is logged and the event dropped; audit emission never blocks
// request handling.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run processes events until the inbox is closed. Remaining buffered
// events are drained before Run returns.
func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "failed to persist audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}

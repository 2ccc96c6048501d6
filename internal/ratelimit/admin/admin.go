// Package admin exposes operator endpoints for the rate limiter.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"profiles/internal/ratelimit/models"
	"profiles/internal/ratelimit/observability"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/audit"
	"profiles/pkg/platform/httputil"
	"profiles/pkg/requestcontext"
)

// Resetter clears a caller's bucket for one action.
type Resetter interface {
	Reset(ctx context.Context, action models.Action, caller id.AccountID) error
}

type Handler struct {
	limiter        Resetter
	logger         *slog.Logger
	auditPublisher observability.AuditPublisher
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithAuditPublisher(p observability.AuditPublisher) Option {
	return func(h *Handler) {
		h.auditPublisher = p
	}
}

func New(limiter Resetter, opts ...Option) (*Handler, error) {
	if limiter == nil {
		return nil, errors.New("rate limiter is required")
	}
	h := &Handler{limiter: limiter, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register mounts the admin endpoints. Callers wrap r with admin auth.
func (h *Handler) Register(r chi.Router) {
	r.Delete("/admin/ratelimit/{action}/{accountID}", h.HandleReset)
}

// HandleReset handles DELETE /admin/ratelimit/{action}/{accountID}.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	action := models.Action(chi.URLParam(r, "action"))
	if !action.IsValid() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown rate limit action"))
		return
	}
	accountID, err := id.ParseAccountID(chi.URLParam(r, "accountID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.limiter.Reset(ctx, action, accountID); err != nil {
		h.logger.ErrorContext(ctx, "rate limit reset failed",
			"request_id", requestcontext.RequestID(ctx),
			"action", action.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	observability.LogAudit(ctx, h.logger, h.auditPublisher, audit.EventRateLimitReset, accountID,
		"action", action.String(),
	)
	w.WriteHeader(http.StatusNoContent)
}

// Package observability provides audit logging helpers for the ratelimit module.
package observability

import (
	"context"
	"log/slog"

	id "profiles/pkg/domain"
	"profiles/pkg/platform/audit"
	"profiles/pkg/requestcontext"
)

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LogAudit writes the event to the structured logger and the audit publisher.
// Subject and reason are lifted from attrList when present.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.AuditEvent, accountID id.AccountID, attrList ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}

	if logger != nil {
		args := append(attrList, "event", string(event), "log_type", "audit")
		logger.InfoContext(ctx, string(event), args...)
	}

	if publisher == nil {
		return
	}

	e := audit.NewEvent(event, accountID)
	e.Subject = extractSubject(attrList)
	e.Reason = extractReason(attrList)
	e.RequestID = requestID
	e.ClientIP = requestcontext.ClientIP(ctx)
	if err := publisher.Emit(ctx, e); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

func extractSubject(attrList []any) string {
	for _, key := range []string{"subject", "identifier", "action"} {
		if val := stringAttr(attrList, key); val != "" {
			return val
		}
	}
	return ""
}

func extractReason(attrList []any) string {
	return stringAttr(attrList, "reason")
}

// stringAttr returns the string value paired with key in a slog-style
// key/value list.
func stringAttr(attrList []any, key string) string {
	for i := 0; i+1 < len(attrList); i += 2 {
		if k, _ := attrList[i].(string); k == key {
			v, _ := attrList[i+1].(string)
			return v
		}
	}
	return ""
}

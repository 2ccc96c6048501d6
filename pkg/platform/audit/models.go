package audit

import (
	"context"
	"time"

	id "profiles/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// Categories drive retention and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers changes to user-controlled data.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers policy rejections and abuse signals.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity and cleanup work. These
	// may be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. It is
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	AccountID id.AccountID  `json:"account_id"`
	Action    string        `json:"action"`
	// Subject is the object acted on, such as an avatar key or profile version.
	Subject   string `json:"subject,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

type AuditEvent string

const (
	EventProfileSet             AuditEvent = "profile_set"
	EventAvatarUploadIssued     AuditEvent = "avatar_upload_issued"
	EventAvatarOrphaned         AuditEvent = "avatar_orphaned"
	EventPaymentAddressRejected AuditEvent = "payment_address_rejected"
	EventCredentialIssued       AuditEvent = "credential_issued"
	EventRateLimitExceeded      AuditEvent = "rate_limit_exceeded"
	EventRateLimitReset         AuditEvent = "rate_limit_reset"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventProfileSet:             CategoryCompliance,
	EventPaymentAddressRejected: CategorySecurity,
	EventRateLimitExceeded:      CategorySecurity,
	EventRateLimitReset:         CategorySecurity,
	EventAvatarUploadIssued:     CategoryOperations,
	EventAvatarOrphaned:         CategoryOperations,
	EventCredentialIssued:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// NewEvent builds an event for action with its category filled in.
func NewEvent(action AuditEvent, accountID id.AccountID) Event {
	return Event{
		Category:  action.Category(),
		AccountID: accountID,
		Action:    string(action),
	}
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

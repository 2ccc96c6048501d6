package models

import (
	"time"

	dErrors "profiles/pkg/domain-errors"
)

// Action names a rate-limited operation. Each action has its own bucket per
// caller.
type Action string

const (
	ActionProfileFetch   Action = "profile_fetch"
	ActionProfileSet     Action = "profile_set"
	ActionUsernameLookup Action = "username_lookup"
)

// IsValid checks if the action is one of the supported values.
func (a Action) IsValid() bool {
	switch a {
	case ActionProfileFetch, ActionProfileSet, ActionUsernameLookup:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// Limit is the number of requests admitted per sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Validate rejects limits that would deny or admit everything by accident.
func (l Limit) Validate() error {
	if l.Requests <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "limit requests must be positive")
	}
	if l.Window <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "limit window must be positive")
	}
	return nil
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool      `json:"allowed"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
	// RetryAfter is only set when not allowed.
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

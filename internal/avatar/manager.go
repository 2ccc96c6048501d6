package avatar

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"profiles/internal/avatar/blob"
	"profiles/internal/profile/metrics"
	id "profiles/pkg/domain"
	audit "profiles/pkg/platform/audit"
)

const (
	keyPrefix            = "profiles/"
	keyEntropyBytes      = 16
	defaultDeleteTimeout = 30 * time.Second
)

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Plan is the outcome of a lifecycle decision before the profile is written.
type Plan struct {
	Action Action
	// Key is the avatar key to store on the new profile, empty when cleared.
	Key string
	// Upload is set only for ActionIssueUpload.
	Upload *blob.UploadForm
	// Obsolete is the previous key to delete once the profile is durable.
	Obsolete string
}

// Manager carries out avatar lifecycle decisions against blob storage.
type Manager struct {
	blobs         blob.Store
	auditor       AuditPublisher
	logger        *slog.Logger
	metrics       *metrics.Metrics
	newKey        func() (string, error)
	deleteTimeout time.Duration
	wg            sync.WaitGroup
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(m *Manager) {
		m.auditor = p
	}
}

// WithKeyGenerator replaces random key generation.
func WithKeyGenerator(fn func() (string, error)) Option {
	return func(m *Manager) {
		m.newKey = fn
	}
}

func WithDeleteTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.deleteTimeout = d
		}
	}
}

func New(blobs blob.Store, opts ...Option) (*Manager, error) {
	if blobs == nil {
		return nil, errors.New("blob store is required")
	}
	m := &Manager{
		blobs:         blobs,
		logger:        slog.Default(),
		newKey:        randomKey,
		deleteTimeout: defaultDeleteTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Plan decides the avatar action and, for a new upload, allocates the key
// and issues upload credentials. No object is deleted here.
func (m *Manager) Plan(ctx context.Context, wantsAvatar, sameAvatar bool, previousKey string) (*Plan, error) {
	action := Decide(wantsAvatar, sameAvatar, previousKey)
	m.metrics.IncrementAvatarAction(string(action))

	switch action {
	case ActionRetain:
		return &Plan{Action: action, Key: previousKey}, nil
	case ActionClear:
		return &Plan{Action: action, Obsolete: previousKey}, nil
	}

	key, err := m.newKey()
	if err != nil {
		return nil, fmt.Errorf("generate avatar key: %w", err)
	}
	form, err := m.blobs.IssueUpload(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("issue avatar upload: %w", err)
	}
	return &Plan{Action: action, Key: key, Upload: form, Obsolete: previousKey}, nil
}

// DiscardObsolete deletes the plan's obsolete object in the background.
// It never fails the caller: errors are logged, counted and audited for
// out-of-band cleanup.
func (m *Manager) DiscardObsolete(ctx context.Context, accountID id.AccountID, plan *Plan) {
	if plan == nil || plan.Obsolete == "" {
		return
	}
	key := plan.Obsolete
	bg := context.WithoutCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		deleteCtx, cancel := context.WithTimeout(bg, m.deleteTimeout)
		defer cancel()

		if err := m.blobs.Delete(deleteCtx, key); err != nil {
			m.metrics.IncrementAvatarDeleteFailure()
			m.logger.WarnContext(bg, "failed to delete obsolete avatar",
				"account_id", accountID.String(),
				"avatar_key", key,
				"error", err,
			)
			if m.auditor != nil {
				event := audit.NewEvent(audit.EventAvatarOrphaned, accountID)
				event.Subject = key
				event.Reason = "delete_failed"
				_ = m.auditor.Emit(bg, event)
			}
		}
	}()
}

// Wait blocks until background deletions finish.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func randomKey() (string, error) {
	b := make([]byte, keyEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return keyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

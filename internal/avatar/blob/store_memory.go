package blob

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore records issued and deleted keys. Used in demo mode and tests.
type MemoryStore struct {
	mu        sync.Mutex
	issued    []string
	deleted   []string
	failWith  error
	uploadTTL time.Duration
	now       func() time.Time
}

func NewMemoryStore(uploadTTL time.Duration) *MemoryStore {
	return &MemoryStore{uploadTTL: uploadTTL, now: time.Now}
}

// FailDeletes makes every later Delete return err.
func (m *MemoryStore) FailDeletes(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

func (m *MemoryStore) IssueUpload(_ context.Context, key string) (*UploadForm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued = append(m.issued, key)
	return &UploadForm{
		Key:       key,
		URL:       "memory://avatars/" + key,
		Method:    "PUT",
		ExpiresAt: m.now().Add(m.uploadTTL).UTC(),
	}, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MemoryStore) Issued() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.issued)
}

func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.deleted)
}

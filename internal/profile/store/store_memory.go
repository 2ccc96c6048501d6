// Package store persists versioned profiles.
package store

import (
	"context"
	"sync"

	"profiles/internal/profile/models"
	id "profiles/pkg/domain"
	"profiles/pkg/platform/sentinel"
)

type profileKey struct {
	account id.AccountID
	version string
}

// InMemoryProfileStore keeps profiles in a map keyed by account and version.
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[profileKey]models.VersionedProfile
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[profileKey]models.VersionedProfile)}
}

func (s *InMemoryProfileStore) Get(_ context.Context, accountID id.AccountID, version string) (*models.VersionedProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[profileKey{accountID, version}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

// Set stores the profile, replacing any earlier write of the same version.
func (s *InMemoryProfileStore) Set(_ context.Context, accountID id.AccountID, profile *models.VersionedProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profileKey{accountID, profile.Version}] = *profile.Clone()
	return nil
}

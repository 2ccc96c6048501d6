package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"profiles/internal/account/models"
	id "profiles/pkg/domain"
	"profiles/pkg/platform/sentinel"
)

// InMemoryAccountStore is a directory backed by maps. Every read and write
// copies the record so callers never alias stored state.
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*models.Account
	byPNI    map[id.PhoneNumberID]id.AccountID
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts: make(map[id.AccountID]*models.Account),
		byPNI:    make(map[id.PhoneNumberID]id.AccountID),
	}
}

// Save inserts or replaces an account.
func (s *InMemoryAccountStore) Save(_ context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.accounts[account.ID]; ok {
		delete(s.byPNI, prev.PhoneNumberID)
	}
	s.accounts[account.ID] = account.Clone()
	s.byPNI[account.PhoneNumberID] = account.ID
	return nil
}

func (s *InMemoryAccountStore) FindByAccountID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return a.Clone(), nil
}

func (s *InMemoryAccountStore) FindByPhoneNumberID(_ context.Context, pni id.PhoneNumberID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	aci, ok := s.byPNI[pni]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.accounts[aci].Clone(), nil
}

func (s *InMemoryAccountStore) FindByUsernameHash(_ context.Context, hash []byte) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if len(a.UsernameHash) > 0 && bytes.Equal(a.UsernameHash, hash) {
			return a.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Execute applies mutate to a copy of the account and stores the result
// only if mutate succeeds.
func (s *InMemoryAccountStore) Execute(_ context.Context, accountID id.AccountID, mutate func(*models.Account) error) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	updated := current.Clone()
	if err := mutate(updated); err != nil {
		return nil, err
	}
	// identifiers are immutable through Execute
	updated.ID = current.ID
	updated.PhoneNumberID = current.PhoneNumberID
	s.accounts[accountID] = updated
	return updated.Clone(), nil
}

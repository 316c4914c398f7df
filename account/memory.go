package account

import (
	"context"
	"sync"

	signAuth "github.com/MrEthical07/signAuth"
)

// MemoryStore is a mutex-guarded in-memory AccountStore for tests and
// examples.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]*signAuth.Account
	byID    map[int64]*signAuth.Account
	nextID  int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byEmail: map[string]*signAuth.Account{},
		byID:    map[int64]*signAuth.Account{},
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*signAuth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*signAuth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (s *MemoryStore) Save(_ context.Context, account *signAuth.Account) (*signAuth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *account
	if saved.ID == 0 {
		if _, taken := s.byEmail[saved.Email]; taken {
			return nil, ErrEmailTaken
		}
		s.nextID++
		saved.ID = s.nextID
	}

	stored := saved
	s.byEmail[stored.Email] = &stored
	s.byID[stored.ID] = &stored
	return &saved, nil
}

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hoofix/models"
	"hoofix/utils"
)

// ErrNoCredential is returned by Get when the slot is empty.
var ErrNoCredential = errors.New("no credential stored")

// CredentialStore is the single slot holding the bearer credential. It is
// written at login and cleared at logout or on an unauthorized response.
type CredentialStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoCredential
	}
	return s.token, nil
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("set credential: empty token")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Current decodes the identity behind the stored credential. Both an empty
// slot and an unreadable token yield utils.ErrNoIdentity.
func Current(ctx context.Context, store CredentialStore) (models.Identity, string, error) {
	token, err := store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return models.Identity{}, "", utils.ErrNoIdentity
		}
		return models.Identity{}, "", fmt.Errorf("read credential: %w", err)
	}
	id, err := utils.DecodeIdentity(token)
	if err != nil {
		return models.Identity{}, "", err
	}
	return id, token, nil
}

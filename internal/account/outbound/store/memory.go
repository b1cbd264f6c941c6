package store

import (
	"context"
	"strings"
	"sync"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
)

// Memory keeps accounts in process, keyed by lower-cased email.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]entity.Account
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]entity.Account)}
}

// GetAccountByEmail returns goerror.ErrNotFound when no account uses email.
func (m *Memory) GetAccountByEmail(_ context.Context, email string) (*entity.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[strings.ToLower(email)]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &acc, nil
}

// CreateAccount stores acc. It reports ErrEmailTaken when the email is in use.
func (m *Memory) CreateAccount(_ context.Context, acc entity.Account) error {
	key := strings.ToLower(acc.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[key]; exists {
		return ErrEmailTaken
	}
	m.accounts[key] = acc

	return nil
}

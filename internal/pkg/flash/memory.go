package flash

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
)

type memoryEntry struct {
	errs      []action.FieldError
	expiresAt time.Time
}

// Memory is an in-process store, suitable for a single instance.
type Memory struct {
	clock clock.Clocker
	ids   uid.StringID
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory returns an in-memory store.
func NewMemory(clk clock.Clocker, ids uid.StringID, ttl time.Duration) *Memory {
	return &Memory{
		clock:   clk,
		ids:     ids,
		ttl:     ttlOrDefault(ttl),
		entries: make(map[string]memoryEntry),
	}
}

// Put stores errs and returns the entry id.
func (m *Memory) Put(_ context.Context, errs []action.FieldError) (string, error) {
	id := m.ids.Generate()
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpired(now)
	m.entries[id] = memoryEntry{errs: slices.Clone(errs), expiresAt: now.Add(m.ttl)}

	return id, nil
}

// Take returns and removes the entry.
func (m *Memory) Take(_ context.Context, id string) ([]action.FieldError, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.entries, id)

	if !m.clock.Now().Before(entry.expiresAt) {
		return nil, ErrNotFound
	}

	return entry.errs, nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// Sweep drops expired entries. It is meant to run periodically so entries
// that are never taken do not pile up between writes.
func (m *Memory) Sweep(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpired(m.clock.Now())
	return nil
}

func (m *Memory) evictExpired(now time.Time) {
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}

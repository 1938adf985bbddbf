package store

import (
	"sync"
	"time"
)

// MemoryStore keeps recommendation details in memory, in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	details []*Detail
	byID    map[string]*Detail
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Detail)}
}

func (m *MemoryStore) AddDetails(details []*Detail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range details {
		if d.ObjectID == "" {
			d.ObjectID = newObjectID()
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = time.Now()
		}
		cp := *d
		m.details = append(m.details, &cp)
		m.byID[cp.ObjectID] = &cp
	}
	return nil
}

func (m *MemoryStore) ListDetails() ([]*Detail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Detail, len(m.details))
	for i, d := range m.details {
		cp := *d
		out[i] = &cp
	}
	return out, nil
}

func (m *MemoryStore) NextPending() (*Detail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.details {
		if !d.Rated {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) SetEvaluation(objectID string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[objectID]
	if !ok {
		return ErrNotFound
	}
	d.Score = score
	d.Rated = true
	return nil
}

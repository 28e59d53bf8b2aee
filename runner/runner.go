// Package runner keeps a bounded set of in-memory cluster indexes alive
// across HTTP requests, evicting the least recently used one once the
// configured ceiling is hit. There is no disk persistence: an index that
// is evicted must be rebuilt from its source FeatureCollection.
package runner

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tcabral/clustopher/cluster"
)

// Manager is the in-memory counterpart of the teacher's gRPC cluster
// registry: a bounded, LRU-evicted map of live indexes keyed by an opaque
// id, safe for concurrent use from multiple request goroutines.
type Manager struct {
	mu           sync.RWMutex
	indexes      map[string]*cluster.Index
	lastAccessed map[string]time.Time
	maxIndexes   int
}

// NewManager starts a Manager that holds at most maxIndexes indexes and
// evicts entries idle for more than 30 minutes on a background ticker.
func NewManager(maxIndexes int) *Manager {
	m := &Manager{
		indexes:      make(map[string]*cluster.Index),
		lastAccessed: make(map[string]time.Time),
		maxIndexes:   maxIndexes,
	}
	go m.evictInactive()
	return m
}

func (m *Manager) evictInactive() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := time.Now()

		var stale []string
		for id, last := range m.lastAccessed {
			if now.Sub(last) > 30*time.Minute {
				stale = append(stale, id)
			}
		}
		for _, id := range stale {
			delete(m.indexes, id)
			delete(m.lastAccessed, id)
		}

		m.mu.Unlock()
	}
}

// Create builds a new index from fc and opts and registers it under a
// fresh uuid, evicting the least recently used index first if the
// manager is already at capacity.
func (m *Manager) Create(fc cluster.FeatureCollection, opts cluster.Options) (string, *cluster.Index, error) {
	idx, err := cluster.NewIndex(fc, opts)
	if err != nil {
		return "", nil, err
	}

	id := uuid.New().String()

	m.mu.Lock()
	if len(m.indexes) >= m.maxIndexes {
		m.evictOldestLocked()
	}
	m.indexes[id] = idx
	m.lastAccessed[id] = time.Now()
	m.mu.Unlock()

	return id, idx, nil
}

func (m *Manager) evictOldestLocked() {
	var oldestID string
	var oldestTime time.Time
	first := true

	for id, t := range m.lastAccessed {
		if first || t.Before(oldestTime) {
			oldestID, oldestTime, first = id, t, false
		}
	}

	if oldestID != "" {
		delete(m.indexes, oldestID)
		delete(m.lastAccessed, oldestID)
	}
}

// Get returns the index registered under id, refreshing its last-access
// time. The bool is false if no such index is currently loaded.
func (m *Manager) Get(id string) (*cluster.Index, bool) {
	m.mu.RLock()
	idx, ok := m.indexes[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	m.lastAccessed[id] = time.Now()
	m.mu.Unlock()

	return idx, true
}

// List returns the ids of every index currently loaded, in no particular
// order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.indexes))
	for id := range m.indexes {
		ids = append(ids, id)
	}
	return ids
}

// Delete removes id from the manager, if present.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.indexes, id)
	delete(m.lastAccessed, id)
	m.mu.Unlock()
}

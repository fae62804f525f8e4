// Package memory is a process local cache store, nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/terrycain/station-tv-server/pkg/cachestore"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
)

type Store struct {
	mu          sync.RWMutex
	partitions  map[string]*Partition
	preferences map[string]string
}

func New() *Store {
	return &Store{
		partitions:  make(map[string]*Partition),
		preferences: make(map[string]string),
	}
}

func (m *Store) Type() string { return "memory" }

func (m *Store) Open(_ context.Context, name string) (cachestore.Partition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.partitions[name]
	if !ok {
		p = &Partition{name: name, entries: make(map[string]s.CacheEntry)}
		m.partitions[name] = p
	}
	return p, nil
}

func (m *Store) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.partitions))
	for name := range m.partitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Store) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.partitions[name]; !ok {
		return e.ErrNotFound
	}
	delete(m.partitions, name)
	return nil
}

func (m *Store) GetPreference(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.preferences[key]
	if !ok {
		return "", e.ErrNotFound
	}
	return value, nil
}

func (m *Store) SetPreference(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.preferences[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Store) Close() error { return nil }

type Partition struct {
	name    string
	mu      sync.RWMutex
	entries map[string]s.CacheEntry
}

func (p *Partition) Name() string { return p.name }

func (p *Partition) Match(_ context.Context, key string, opts s.MatchOptions) (s.CacheEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if entry, ok := p.entries[key]; ok {
		return entry, nil
	}
	if !opts.IgnoreQuery {
		return s.CacheEntry{}, e.ErrCacheMiss
	}

	want := s.StripQuery(key)
	for k, entry := range p.entries {
		if strings.HasPrefix(k, want) && s.StripQuery(k) == want {
			return entry, nil
		}
	}
	return s.CacheEntry{}, e.ErrCacheMiss
}

func (p *Partition) Put(_ context.Context, key string, entry s.CacheEntry) error {
	p.mu.Lock()
	p.entries[key] = entry
	p.mu.Unlock()
	return nil
}

package catalog

import (
	"context"
	"sort"
	"sync"
)

type Item struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Seller      string `yaml:"seller"`
}

// Store is the in-memory catalog shared by every connection. It is written
// only while it is built; all protocol access goes through the read lock.
type Store struct {
	mu sync.RWMutex
	m  map[string]Item
}

func NewStore(items ...Item) *Store {
	s := &Store{m: make(map[string]Item, len(items))}
	for _, it := range items {
		s.put(it)
	}
	return s
}

func (s *Store) put(it Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[it.ID] = it
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Items returns a snapshot of the catalog ordered by id.
func (s *Store) Items() []Item {
	s.mu.RLock()
	out := make([]Item, 0, len(s.m))
	for _, it := range s.m {
		out = append(out, it)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.m[id]
	return it, ok
}

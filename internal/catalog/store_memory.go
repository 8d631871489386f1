package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string]Product
}

// NewMemStore seeds the demo catalog used by the scanner simulator.
// Keys are normalized tags; prices are integer currency units.
func NewMemStore() *MemStore {
	s := &MemStore{m: map[string]Product{}}
	for _, p := range []Product{
		{TagID: "A1B2C3D4", Name: "Milk (1L)", Price: 40, Category: "dairy"},
		{TagID: "C9D0E1F2", Name: "Eggs (12)", Price: 62, Category: "dairy"},
		{TagID: "AABBCCDD", Name: "Butter 200g", Price: 75, Category: "dairy"},
		{TagID: "E5F6A7B8", Name: "Sourdough Loaf", Price: 55, Category: "bakery"},
		{TagID: "11223344", Name: "Ground Coffee 250g", Price: 120, Category: "pantry"},
		{TagID: "99AABB00", Name: "Pasta 500g", Price: 30, Category: "pantry"},
		{TagID: "55667788", Name: "Orange Juice 1L", Price: 48, Category: "beverages"},
		{TagID: "DEADBEEF", Name: "Dark Chocolate 85g", Price: 35, Category: "snacks"},
	} {
		s.m[p.TagID] = p
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSortedByTag(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TagID < out[j].TagID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, tag string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[tag]
	return p, ok, nil
}

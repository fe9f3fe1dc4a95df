package safezone

import "strings"

// Store exposes catalog retrieval for HTTP handlers and the negotiation
// service.
type Store interface {
	List() []SafeZone
	FindByID(id string) (SafeZone, bool)
	FindByArea(city, zipCode string) []SafeZone
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []SafeZone
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied zones.
func NewMemoryStore(items []SafeZone) *MemoryStore {
	return &MemoryStore{items: append([]SafeZone(nil), items...)}
}

// List returns the full catalog.
func (s *MemoryStore) List() []SafeZone {
	return append([]SafeZone(nil), s.items...)
}

// FindByID looks up a safe zone by identifier.
func (s *MemoryStore) FindByID(id string) (SafeZone, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return SafeZone{}, false
}

// FindByArea filters the catalog by city and/or zip code. Empty arguments
// match everything, so FindByArea("", "") equals List.
func (s *MemoryStore) FindByArea(city, zipCode string) []SafeZone {
	out := make([]SafeZone, 0, len(s.items))
	for _, item := range s.items {
		if city != "" && !strings.EqualFold(item.City, city) {
			continue
		}
		if zipCode != "" && item.ZipCode != zipCode {
			continue
		}
		out = append(out, item)
	}
	return out
}

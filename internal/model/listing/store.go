package listing

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("listing not found")
	ErrTitleRequired = errors.New("listing title is required")
	ErrPriceRequired = errors.New("listing price must be greater than zero")
)

// Store abstracts listing persistence so handlers and tests do not care
// whether sqlite or memory backs them.
type Store interface {
	Create(ctx context.Context, l Listing) (Listing, error)
	GetByID(ctx context.Context, id string) (Listing, error)
	Search(ctx context.Context, f Filter) ([]Listing, error)
	MarkSold(ctx context.Context, id string) error
}

// MemoryStore implements Store with mutex-guarded maps. Used by tests and
// available as a dev fallback.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Listing
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Listing)}
}

// Create validates and stores a listing, assigning id, status and creation
// time.
func (s *MemoryStore) Create(_ context.Context, l Listing) (Listing, error) {
	if strings.TrimSpace(l.Title) == "" {
		return Listing{}, ErrTitleRequired
	}
	if l.Price <= 0 {
		return Listing{}, ErrPriceRequired
	}

	l.ID = uuid.NewString()
	l.Status = StatusActive
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.items[l.ID] = l
	s.mu.Unlock()
	return l, nil
}

// GetByID retrieves a listing by identifier.
func (s *MemoryStore) GetByID(_ context.Context, id string) (Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.items[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	return l, nil
}

// Search returns listings matching the filter, newest first.
func (s *MemoryStore) Search(_ context.Context, f Filter) ([]Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Listing, 0, len(s.items))
	for _, l := range s.items {
		if f.City != "" && !strings.EqualFold(l.City, f.City) {
			continue
		}
		if f.ZipCode != "" && l.ZipCode != f.ZipCode {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkSold flips a listing's status.
func (s *MemoryStore) MarkSold(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	l.Status = StatusSold
	s.items[id] = l
	return nil
}

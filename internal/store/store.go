// Package store keeps complaints in memory, newest first.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"unmute-go/internal/types"
)

var (
	ErrNotFound    = errors.New("complaint not found")
	ErrCategorySet = errors.New("complaint already categorized")
)

type Store struct {
	mu    sync.RWMutex
	items []*types.Complaint // newest first
	byID  map[string]*types.Complaint

	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func New(opts ...Option) *Store {
	s := &Store{
		byID:  make(map[string]*types.Complaint),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Seed appends existing complaints behind everything already stored. Records
// without an id get one; duplicate ids are skipped. A missing or unsettled
// category becomes types.CategoryFallback.
func (s *Store) Seed(complaints ...types.Complaint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, c := range complaints {
		if c.ID == "" {
			c.ID = s.newID()
		}
		if _, dup := s.byID[c.ID]; dup {
			continue
		}
		if c.Status == "" {
			c.Status = types.StatusPending
		}
		// nothing will ever categorize a seeded record
		if c.Category == "" || c.Category == types.CategoryPlaceholder {
			c.Category = types.CategoryFallback
		}
		rec := c
		s.items = append(s.items, &rec)
		s.byID[rec.ID] = &rec
		added++
	}
	return added
}

// Create inserts a PENDING complaint with the category placeholder at the front.
func (s *Store) Create(content string, isAudio bool, transcription string) types.Complaint {
	rec := &types.Complaint{
		ID:        s.newID(),
		Content:   content,
		Timestamp: s.now(),
		Status:    types.StatusPending,
		Category:  types.CategoryPlaceholder,
		IsAudio:   isAudio,
	}
	if isAudio {
		rec.Transcription = transcription
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]*types.Complaint{rec}, s.items...)
	s.byID[rec.ID] = rec
	return *rec
}

func (s *Store) Get(id string) (types.Complaint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return types.Complaint{}, false
	}
	return *rec, true
}

func (s *Store) ToggleStatus(id string) (types.Complaint, error) {
	return s.update(id, func(c *types.Complaint) error {
		c.Status = c.Status.Toggle()
		return nil
	})
}

// SetCategory replaces the placeholder. It fails once a concrete category is set.
func (s *Store) SetCategory(id, category string) (types.Complaint, error) {
	return s.update(id, func(c *types.Complaint) error {
		if c.Category != types.CategoryPlaceholder {
			return ErrCategorySet
		}
		c.Category = category
		return nil
	})
}

func (s *Store) SetAnalysis(id, analysis string) (types.Complaint, error) {
	return s.update(id, func(c *types.Complaint) error {
		c.AIAnalysis = analysis
		return nil
	})
}

func (s *Store) update(id string, fn func(*types.Complaint) error) (types.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[id]
	if !ok {
		return types.Complaint{}, ErrNotFound
	}
	if err := fn(rec); err != nil {
		return *rec, err
	}
	return *rec, nil
}

// Filter returns matching complaints in display order.
func (s *Store) Filter(f types.Filter) []types.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Complaint, 0, len(s.items))
	for _, rec := range s.items {
		if f.Match(*rec) {
			out = append(out, *rec)
		}
	}
	return out
}

func (s *Store) List() []types.Complaint {
	return s.Filter(types.FilterAll)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Package feed implements the client-side feed machinery: an ordered,
// deduplicated post collection, a pagination cursor with single-flight
// gating, a visibility sentinel, and the explore filter.
package feed

import (
	"sync"

	"github.com/photoshare/photoshare-cli/model"
)

// Store is the ordered collection of posts materialized for one view. It is
// the single source of truth: mutations go through it so every view sharing
// the store observes the same entries.
type Store struct {
	mu    sync.RWMutex
	posts []model.Post
	index map[int64]int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		index: make(map[int64]int),
	}
}

// Append merges newItems into the existing sequence, dropping any item whose
// id is already present (first-seen wins). This guards against overlapping
// pages produced by concurrent triggers. Returns the number of items added.
func (s *Store) Append(newItems []model.Post) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, item := range newItems {
		if _, exists := s.index[item.ID]; exists {
			continue
		}
		s.index[item.ID] = len(s.posts)
		s.posts = append(s.posts, item)
		added++
	}
	return added
}

// Replace discards prior contents entirely and installs items, deduplicating
// within the incoming batch by the same first-seen-wins rule. Used after a
// filter change or a full refresh.
func (s *Store) Replace(items []model.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	s.index = make(map[int64]int)
	for _, item := range items {
		if _, exists := s.index[item.ID]; exists {
			continue
		}
		s.index[item.ID] = len(s.posts)
		s.posts = append(s.posts, item)
	}
}

// MutateByID applies updater to the stored post with the given id, in place.
// Returns false without calling updater when the id is absent.
func (s *Store) MutateByID(id int64, updater func(*model.Post)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, exists := s.index[id]
	if !exists {
		return false
	}
	updater(&s.posts[pos])
	return true
}

// RemoveByID removes the post with the given id, preserving the order of the
// remaining entries. Returns whether anything was removed.
func (s *Store) RemoveByID(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, exists := s.index[id]
	if !exists {
		return false
	}
	s.posts = append(s.posts[:pos], s.posts[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.posts); i++ {
		s.index[s.posts[i].ID] = i
	}
	return true
}

// Get returns a copy of the post with the given id.
func (s *Store) Get(id int64) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, exists := s.index[id]
	if !exists {
		return model.Post{}, false
	}
	return s.posts[pos], true
}

// Posts returns a copy of the ordered contents.
func (s *Store) Posts() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// IDs returns the post ids in store order.
func (s *Store) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, len(s.posts))
	for i, p := range s.posts {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of materialized posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// Ensure stores implement the interfaces.
var (
	_ driven.ContentValueStore = (*ContentValueStore)(nil)
	_ driven.TreeStore         = (*TreeStore)(nil)
)

// ContentValueStore is an in-memory implementation of driven.ContentValueStore.
type ContentValueStore struct {
	mu     sync.RWMutex
	values []domain.ContentValue
}

// NewContentValueStore creates a new in-memory content value store.
func NewContentValueStore() *ContentValueStore {
	return &ContentValueStore{}
}

// Add stores a content value.
func (s *ContentValueStore) Add(v domain.ContentValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, v)
}

// Clear removes all values of an element revision.
func (s *ContentValueStore) Clear(elementID int64, version int, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = slices.DeleteFunc(s.values, func(v domain.ContentValue) bool {
		return v.ElementID == elementID && v.Version == version && v.Language == language
	})
}

// Exists reports whether a content value matches the query.
func (s *ContentValueStore) Exists(_ context.Context, q domain.ContentQuery) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.values {
		if v.ElementID != q.ElementID || v.Language != q.Language || v.Version != q.Version {
			continue
		}
		if !slices.Contains(q.Contents, v.Content) {
			continue
		}
		if len(q.FieldTypes) > 0 && !slices.Contains(q.FieldTypes, v.FieldType) {
			continue
		}
		return true, nil
	}
	return false, nil
}

type nodeKey struct {
	siterootID string
	nodeID     int64
	language   string
}

// TreeStore is an in-memory implementation of driven.TreeStore.
type TreeStore struct {
	mu        sync.RWMutex
	published map[nodeKey]int
}

// NewTreeStore creates a new in-memory tree store.
func NewTreeStore() *TreeStore {
	return &TreeStore{published: make(map[nodeKey]int)}
}

// Publish records the published version of a node.
func (s *TreeStore) Publish(n domain.PublishedNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published[nodeKey{n.SiterootID, n.NodeID, n.Language}] = n.Version
}

// Unpublish removes the published version of a node.
func (s *TreeStore) Unpublish(siterootID string, nodeID int64, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.published, nodeKey{siterootID, nodeID, language})
}

// PublishedVersion returns the published version of a node.
func (s *TreeStore) PublishedVersion(_ context.Context, siterootID string, nodeID int64, language string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.published[nodeKey{siterootID, nodeID, language}]
	return v, ok, nil
}

package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// Ensure SiterootStore implements the interface.
var _ driven.SiterootStore = (*SiterootStore)(nil)

// SiterootStore is an in-memory implementation of driven.SiterootStore.
type SiterootStore struct {
	mu    sync.RWMutex
	sites map[string]map[string]string
}

// NewSiterootStore creates a new in-memory siteroot store.
func NewSiterootStore() *SiterootStore {
	return &SiterootStore{sites: make(map[string]map[string]string)}
}

// Put stores a siteroot with its properties.
func (s *SiterootStore) Put(siterootID string, props map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[siterootID] = maps.Clone(props)
}

// Properties returns a copy of the siteroot's properties.
func (s *SiterootStore) Properties(_ context.Context, siterootID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	props, ok := s.sites[siterootID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := maps.Clone(props)
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

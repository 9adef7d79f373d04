package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// Ensure UsageStore implements the interface.
var _ driven.UsageStore = (*UsageStore)(nil)

// UsageStore is an in-memory implementation of driven.UsageStore.
type UsageStore struct {
	mu      sync.RWMutex
	files   []domain.FileUsage
	folders []domain.FolderUsage
}

// NewUsageStore creates a new in-memory usage store.
func NewUsageStore() *UsageStore {
	return &UsageStore{}
}

// AddFileUsage records a file usage, replacing an existing record for
// the same file version and usage.
func (s *UsageStore) AddFileUsage(u domain.FileUsage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.files {
		if existing.FileID == u.FileID && existing.FileVersion == u.FileVersion &&
			existing.UsageType == u.UsageType && existing.UsageID == u.UsageID {
			s.files[i] = u
			return
		}
	}
	s.files = append(s.files, u)
}

// AddFolderUsage records a folder usage.
func (s *UsageStore) AddFolderUsage(u domain.FolderUsage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = append(s.folders, u)
}

// FileUsagesByElement returns all file usages owned by an element.
func (s *UsageStore) FileUsagesByElement(_ context.Context, usageType string, usageID int64) ([]domain.FileUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.FileUsage
	for _, u := range s.files {
		if u.UsageType == usageType && u.UsageID == usageID {
			result = append(result, u)
		}
	}
	return result, nil
}

// FileUsagesByFile returns all usages of one file version.
func (s *UsageStore) FileUsagesByFile(_ context.Context, file domain.FileRef, usageType string) ([]domain.FileUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.FileUsage
	for _, u := range s.files {
		if u.File() == file && u.UsageType == usageType {
			result = append(result, u)
		}
	}
	return result, nil
}

// FolderUsages returns all folder usages of a usage type.
func (s *UsageStore) FolderUsages(_ context.Context, usageType string) ([]domain.FolderUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.FolderUsage
	for _, u := range s.folders {
		if u.UsageType == usageType {
			result = append(result, u)
		}
	}
	return result, nil
}

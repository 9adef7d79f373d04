// Package memory provides an in-memory search index used by tests and
// dry runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.SearchIndex.
type Index struct {
	mu        sync.RWMutex
	docs      map[string]domain.IndexDocument
	onCreate  driven.DocumentCreatedHook
	searchErr error
	bulkErrs  map[string]error
	writes    int
}

// NewIndex creates a new in-memory index. The hook, if not nil, runs
// when a document is added for the first time.
func NewIndex(onCreate driven.DocumentCreatedHook) *Index {
	return &Index{
		docs:     make(map[string]domain.IndexDocument),
		onCreate: onCreate,
		bulkErrs: make(map[string]error),
	}
}

// FailSearch makes every subsequent Search fail with err. Nil resets it.
func (i *Index) FailSearch(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.searchErr = err
}

// FailBulkFor makes bulk submissions touching id fail with err.
func (i *Index) FailBulkFor(id string, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bulkErrs[id] = err
}

// Writes returns the number of successful bulk submissions.
func (i *Index) Writes() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.writes
}

// Search returns documents of a kind matching every term.
func (i *Index) Search(_ context.Context, kind string, filter driven.TermFilter) ([]domain.IndexDocument, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.searchErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, i.searchErr)
	}

	var result []domain.IndexDocument
	for _, doc := range i.docs {
		if doc.Kind == kind && matches(doc, filter) {
			result = append(result, doc.Clone())
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ID < result[b].ID })
	return result, nil
}

func matches(doc domain.IndexDocument, filter driven.TermFilter) bool {
	for field, term := range filter {
		values := domain.StringValues(doc.Get(field))
		if !slices.Contains(values, domain.StringValue(term)) {
			return false
		}
	}
	return true
}

// Get retrieves a document by identity.
func (i *Index) Get(_ context.Context, id string) (*domain.IndexDocument, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	doc, ok := i.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := doc.Clone()
	return &clone, nil
}

// Bulk applies all operations or none.
func (i *Index) Bulk(_ context.Context, ops []driven.IndexOperation) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, op := range ops {
		if err, ok := i.bulkErrs[op.Document.ID]; ok {
			return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
		}
		if op.Type == driven.OpUpdate {
			if _, ok := i.docs[op.Document.ID]; !ok {
				return fmt.Errorf("update %s: %w", op.Document.ID, domain.ErrNotFound)
			}
		}
	}

	for _, op := range ops {
		doc := op.Document.Clone()
		switch op.Type {
		case driven.OpAdd:
			if _, exists := i.docs[doc.ID]; !exists && i.onCreate != nil {
				i.onCreate(&doc)
			}
			i.docs[doc.ID] = doc
		case driven.OpUpdate:
			i.docs[doc.ID] = doc
		case driven.OpDelete:
			delete(i.docs, doc.ID)
		}
	}
	i.writes++
	return nil
}

// Close releases resources.
func (i *Index) Close() error { return nil }

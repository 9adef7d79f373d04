package driven

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// TermFilter is a conjunction of exact-match terms. A term matches a
// multi-valued field when any of its values equals the term.
type TermFilter map[string]any

// OperationType is the kind of bulk index operation.
type OperationType string

// Bulk operation types.
const (
	OpAdd    OperationType = "add"
	OpUpdate OperationType = "update"
	OpDelete OperationType = "delete"
)

// IndexOperation is one entry of a bulk submission.
type IndexOperation struct {
	Type     OperationType
	Document domain.IndexDocument
}

// SearchIndex provides access to the denormalised search documents.
// Failures to reach the index wrap domain.ErrIndexUnavailable.
type SearchIndex interface {
	// Search returns documents of a kind matching every term of the filter.
	Search(ctx context.Context, kind string, filter TermFilter) ([]domain.IndexDocument, error)

	// Get retrieves a document by identity.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.IndexDocument, error)

	// Bulk applies operations atomically.
	Bulk(ctx context.Context, ops []IndexOperation) error

	// Close releases resources.
	Close() error
}

// DocumentCreatedHook is invoked by index adapters when a document is
// added for the first time, before it is stored.
type DocumentCreatedHook func(doc *domain.IndexDocument)

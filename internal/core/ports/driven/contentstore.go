package driven

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// ContentValueStore answers existence queries over structured content
// values of element revisions.
type ContentValueStore interface {
	// Exists reports whether at least one content value matches the query.
	Exists(ctx context.Context, q domain.ContentQuery) (bool, error)
}

// TreeStore resolves the published state of tree nodes.
type TreeStore interface {
	// PublishedVersion returns the published version of a node in a
	// language. ok is false when the node has no published revision.
	PublishedVersion(ctx context.Context, siterootID string, nodeID int64, language string) (version int, ok bool, err error)
}

// SiterootStore reads siteroot property bags.
type SiterootStore interface {
	// Properties returns the properties of a siteroot.
	// Returns domain.ErrNotFound if the siteroot does not exist.
	Properties(ctx context.Context, siterootID string) (map[string]string, error)
}

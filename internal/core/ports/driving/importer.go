package driving

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// Importer loads content state into the stores and the index.
type Importer interface {
	// Import writes a fixture. Stored page documents schedule
	// reconciliation of their element when an event handler is wired.
	Import(ctx context.Context, fixture domain.Fixture) (*domain.ImportSummary, error)
}

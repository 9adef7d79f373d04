package driving

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// Reconciler rebuilds the page usage summary of every media document
// affected by a change to one element.
type Reconciler interface {
	// Reconcile runs one reconciliation for an element id.
	// Per-document failures are reported in the result; an error is
	// returned only when the affected set cannot be built.
	Reconcile(ctx context.Context, elementID int64) (*domain.ReconcileResult, error)
}

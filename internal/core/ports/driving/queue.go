package driving

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// JobQueue defers reconciliations and drains them in the background.
type JobQueue interface {
	// Enqueue schedules a reconciliation. A pending job for the same
	// element is returned instead of creating a duplicate.
	Enqueue(ctx context.Context, elementID int64) (*domain.Job, error)

	// RunOnce drains all currently pending jobs and returns how many ran.
	RunOnce(ctx context.Context) (int, error)

	// Run drains jobs until ctx is done or Stop is called.
	Run(ctx context.Context) error

	// Stop ends a running Run loop and waits for the current job.
	Stop() error

	// List returns jobs, optionally filtered by status.
	List(ctx context.Context, status domain.JobStatus, limit int) ([]domain.Job, error)
}

// NodeEventHandler translates content tree events into reconciliation jobs.
type NodeEventHandler interface {
	// NodeOffline is called when a node is taken offline.
	NodeOffline(ctx context.Context, elementID int64) error

	// NodeDeleted is called when a node is deleted.
	NodeDeleted(ctx context.Context, elementID int64) error

	// PageStored is called when a page document is added or updated.
	PageStored(ctx context.Context, doc domain.IndexDocument) error
}

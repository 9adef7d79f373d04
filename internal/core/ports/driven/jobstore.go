package driven

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// JobStore persists deferred reconciliation jobs.
type JobStore interface {
	// SaveJob creates or updates a job based on ID.
	SaveJob(ctx context.Context, job *domain.Job) error

	// GetJob retrieves a job by ID.
	// Returns domain.ErrNotFound if the job does not exist.
	GetJob(ctx context.Context, id string) (*domain.Job, error)

	// FindPending returns the pending job for an element.
	// Returns nil and no error if there is none.
	FindPending(ctx context.Context, elementID int64) (*domain.Job, error)

	// ListJobs returns jobs with the given status, oldest first.
	// An empty status returns all jobs.
	ListJobs(ctx context.Context, status domain.JobStatus, limit int) ([]domain.Job, error)

	// PruneJobs removes finished jobs beyond the most recent 'keep'.
	PruneJobs(ctx context.Context, keep int) error
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driving"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// Ensure JobQueue implements the interface.
var _ driving.JobQueue = (*JobQueue)(nil)

// JobQueue defers reconciliations and drains them one at a time,
// rate limited. Retries live here, not in the reconciliation core.
type JobQueue struct {
	config     domain.QueueConfig
	store      driven.JobStore
	reconciler driving.Reconciler
	limiter    *rate.Limiter

	enqueueMu sync.Mutex

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewJobQueue creates a job queue with configuration.
func NewJobQueue(config domain.QueueConfig, store driven.JobStore, reconciler driving.Reconciler) *JobQueue {
	defaults := domain.DefaultQueueConfig()
	if config.Rate <= 0 {
		config.Rate = defaults.Rate
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	return &JobQueue{
		config:     config,
		store:      store,
		reconciler: reconciler,
		limiter:    rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
	}
}

// Enqueue schedules a reconciliation for an element. While a job for the
// element is pending, that job is returned instead of a new one.
func (q *JobQueue) Enqueue(ctx context.Context, elementID int64) (*domain.Job, error) {
	if elementID <= 0 {
		return nil, fmt.Errorf("%w: element id %d", domain.ErrInvalidInput, elementID)
	}

	q.enqueueMu.Lock()
	defer q.enqueueMu.Unlock()

	existing, err := q.store.FindPending(ctx, elementID)
	if err != nil {
		return nil, fmt.Errorf("find pending job: %w", err)
	}
	if existing != nil {
		logger.Debug("job already pending", "job", existing.ID, "element", elementID)
		return existing, nil
	}

	now := time.Now()
	job := &domain.Job{
		ID:        uuid.NewString(),
		ElementID: elementID,
		Status:    domain.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := q.store.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	logger.Info("job enqueued", "job", job.ID, "element", elementID)
	return job, nil
}

// List returns jobs, optionally filtered by status.
func (q *JobQueue) List(ctx context.Context, status domain.JobStatus, limit int) ([]domain.Job, error) {
	return q.store.ListJobs(ctx, status, limit)
}

// RunOnce drains the currently pending jobs.
func (q *JobQueue) RunOnce(ctx context.Context) (int, error) {
	return q.drain(ctx, nil)
}

// Run drains jobs every poll interval. This method blocks until Stop is
// called or ctx is done.
func (q *JobQueue) Run(ctx context.Context) error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return nil // Already running
	}
	q.running = true
	q.stopCh = make(chan struct{})
	stopCh := q.stopCh
	q.wg.Add(1)
	q.mu.Unlock()

	err := q.recoverRunning(ctx)
	q.wg.Done()
	if err != nil {
		logger.Warn("queue: failed to recover running jobs", "error", err)
	}

	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()

	for {
		// Add must happen under mu so it never races the Wait in Stop.
		q.mu.Lock()
		select {
		case <-stopCh:
			q.mu.Unlock()
			return nil
		default:
		}
		q.wg.Add(1)
		q.mu.Unlock()

		_, err := q.drain(ctx, stopCh)
		q.wg.Done()
		if err != nil && ctx.Err() == nil {
			logger.Warn("queue: drain failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
		}
	}
}

// Stop gracefully shuts down Run, waiting for the current job.
func (q *JobQueue) Stop() error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	close(q.stopCh)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// recoverRunning resets jobs left running by a crashed worker.
func (q *JobQueue) recoverRunning(ctx context.Context) error {
	jobs, err := q.store.ListJobs(ctx, domain.JobRunning, 0)
	if err != nil {
		return err
	}
	for i := range jobs {
		job := &jobs[i]
		job.Status = domain.JobPending
		job.UpdatedAt = time.Now()
		if err := q.store.SaveJob(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// drain runs pending jobs oldest first until none are left or stopCh closes.
func (q *JobQueue) drain(ctx context.Context, stopCh <-chan struct{}) (int, error) {
	jobs, err := q.store.ListJobs(ctx, domain.JobPending, 0)
	if err != nil {
		return 0, fmt.Errorf("list pending jobs: %w", err)
	}

	ran := 0
	for i := range jobs {
		select {
		case <-stopCh:
			return ran, nil
		default:
		}
		if err := q.limiter.Wait(ctx); err != nil {
			return ran, err
		}
		if err := q.runJob(ctx, &jobs[i]); err != nil {
			return ran, err
		}
		ran++
	}

	if ran > 0 && q.config.Retention > 0 {
		if err := q.store.PruneJobs(ctx, q.config.Retention); err != nil {
			logger.Warn("queue: failed to prune jobs", "error", err)
		}
	}
	return ran, nil
}

// runJob executes one job and records the outcome. Only job store
// failures are returned; reconciliation failures are recorded on the job.
func (q *JobQueue) runJob(ctx context.Context, job *domain.Job) error {
	job.Status = domain.JobRunning
	job.Attempts++
	job.UpdatedAt = time.Now()
	if err := q.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}

	result, err := q.reconciler.Reconcile(ctx, job.ElementID)
	switch {
	case err != nil:
		job.LastError = err.Error()
		job.Failures = 0
	case result.HasFailures():
		job.Affected = result.AffectedCount()
		job.Failures = len(result.Failures)
		job.LastError = fmt.Sprintf("%d of %d documents failed: %v",
			len(result.Failures), result.AffectedCount(), result.Failures[0].Err)
	default:
		job.Affected = result.AffectedCount()
		job.Failures = 0
		job.LastError = ""
	}

	switch {
	case job.LastError == "":
		job.Status = domain.JobDone
	case job.Attempts < q.config.MaxAttempts:
		job.Status = domain.JobPending
	default:
		job.Status = domain.JobFailed
	}
	job.UpdatedAt = time.Now()

	logger.Info("job finished", "job", job.ID, "element", job.ElementID,
		"status", job.Status, "attempts", job.Attempts, "affected", job.Affected)

	if err := q.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}

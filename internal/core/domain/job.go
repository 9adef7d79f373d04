package domain

import "time"

// JobStatus is the lifecycle state of a queued reconciliation.
type JobStatus string

// Job states.
const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// IsValid returns true if the status is known.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobPending, JobRunning, JobDone, JobFailed:
		return true
	}
	return false
}

// Job is a deferred reconciliation request for one element.
type Job struct {
	// ID is the unique identifier for the job.
	ID string

	// ElementID is the element to reconcile.
	ElementID int64

	// Status is the current lifecycle state.
	Status JobStatus

	// Attempts counts executions so far.
	Attempts int

	// LastError contains the last error message, if any.
	LastError string

	// Affected is the number of documents processed by the last run.
	Affected int

	// Failures is the number of documents that failed in the last run.
	Failures int

	// CreatedAt is when the job was enqueued.
	CreatedAt time.Time

	// UpdatedAt is when the job last changed state.
	UpdatedAt time.Time
}

// QueueConfig holds job queue configuration.
type QueueConfig struct {
	// Rate is the sustained number of reconciliations per second.
	Rate float64

	// Burst is the maximum burst size.
	Burst int

	// MaxAttempts bounds retries of a failing job.
	MaxAttempts int

	// PollInterval is how often the worker looks for pending jobs.
	PollInterval time.Duration

	// Retention is how many finished jobs are kept.
	Retention int
}

// DefaultQueueConfig returns sensible defaults for the job queue.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Rate:         5.0,
		Burst:        10,
		MaxAttempts:  3,
		PollInterval: 5 * time.Second,
		Retention:    100,
	}
}

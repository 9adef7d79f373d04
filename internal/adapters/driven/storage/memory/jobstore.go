package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// Ensure JobStore implements the interface.
var _ driven.JobStore = (*JobStore)(nil)

// JobStore is an in-memory implementation of driven.JobStore.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

// NewJobStore creates a new in-memory job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]domain.Job)}
}

// SaveJob creates or updates a job.
func (s *JobStore) SaveJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

// GetJob retrieves a job by ID.
func (s *JobStore) GetJob(_ context.Context, id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

// FindPending returns the pending job for an element, or nil.
func (s *JobStore) FindPending(_ context.Context, elementID int64) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.ElementID == elementID && job.Status == domain.JobPending {
			return &job, nil
		}
	}
	return nil, nil
}

// ListJobs returns jobs with a status, oldest first.
func (s *JobStore) ListJobs(_ context.Context, status domain.JobStatus, limit int) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Job
	for _, job := range s.jobs {
		if status == "" || job.Status == status {
			result = append(result, job)
		}
	}
	sortJobs(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// PruneJobs keeps only the most recent 'keep' finished jobs.
func (s *JobStore) PruneJobs(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var finished []domain.Job
	for _, job := range s.jobs {
		if job.Status == domain.JobDone || job.Status == domain.JobFailed {
			finished = append(finished, job)
		}
	}
	sortJobs(finished)
	for i := 0; i < len(finished)-keep; i++ {
		delete(s.jobs, finished[i].ID)
	}
	return nil
}

func sortJobs(jobs []domain.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
}

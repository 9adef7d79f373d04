package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

const jobColumns = `id, element_id, status, attempts, last_error, affected, failures, created_at, updated_at`

// SaveJob creates or updates a job.
func (s *jobStore) SaveJob(ctx context.Context, job *domain.Job) error {
	if job == nil {
		return domain.ErrInvalidInput
	}
	if !job.Status.IsValid() {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = now
	}

	_, err := s.store.exec(ctx, `
		INSERT INTO reconcile_job (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			element_id = excluded.element_id,
			status = excluded.status,
			attempts = excluded.attempts,
			last_error = excluded.last_error,
			affected = excluded.affected,
			failures = excluded.failures,
			updated_at = excluded.updated_at
	`,
		job.ID, job.ElementID, string(job.Status), job.Attempts, job.LastError,
		job.Affected, job.Failures, job.CreatedAt.UnixNano(), job.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return unavailable("saving job", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	row := s.store.queryRow(ctx, `SELECT `+jobColumns+` FROM reconcile_job WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("getting job", err)
	}
	return job, nil
}

// FindPending returns the oldest pending job for an element, or nil.
func (s *jobStore) FindPending(ctx context.Context, elementID int64) (*domain.Job, error) {
	row := s.store.queryRow(ctx, `
		SELECT `+jobColumns+` FROM reconcile_job
		WHERE element_id = ? AND status = ?
		ORDER BY created_at, id
		LIMIT 1
	`, elementID, string(domain.JobPending))
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("finding pending job", err)
	}
	return job, nil
}

// ListJobs returns jobs with the given status, oldest first.
func (s *jobStore) ListJobs(ctx context.Context, status domain.JobStatus, limit int) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM reconcile_job`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.store.query(ctx, query, args...)
	if err != nil {
		return nil, unavailable("listing jobs", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, unavailable("scanning job", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating jobs", err)
	}
	return jobs, nil
}

// PruneJobs removes finished jobs beyond the most recent 'keep'.
func (s *jobStore) PruneJobs(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.store.exec(ctx, `
		DELETE FROM reconcile_job
		WHERE status IN (?, ?)
		AND id NOT IN (
			SELECT id FROM reconcile_job
			WHERE status IN (?, ?)
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`,
		string(domain.JobDone), string(domain.JobFailed),
		string(domain.JobDone), string(domain.JobFailed),
		keep,
	)
	if err != nil {
		return unavailable("pruning jobs", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job       domain.Job
		status    string
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&job.ID, &job.ElementID, &status, &job.Attempts, &job.LastError,
		&job.Affected, &job.Failures, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	job.CreatedAt = time.Unix(0, createdAt)
	job.UpdatedAt = time.Unix(0, updatedAt)
	return &job, nil
}

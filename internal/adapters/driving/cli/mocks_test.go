package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// mockReconciler implements driving.Reconciler for testing.
type mockReconciler struct {
	result *domain.ReconcileResult
	err    error
	calls  []int64
}

func (m *mockReconciler) Reconcile(_ context.Context, eid int64) (*domain.ReconcileResult, error) {
	m.calls = append(m.calls, eid)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockJobQueue implements driving.JobQueue for testing.
type mockJobQueue struct {
	enqueued []int64
	ranOnce  int
	runCalls int
	jobs     []domain.Job
	status   domain.JobStatus
	err      error
}

func (m *mockJobQueue) Enqueue(_ context.Context, eid int64) (*domain.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.enqueued = append(m.enqueued, eid)
	return &domain.Job{ID: "job-" + string(rune('0'+len(m.enqueued))), ElementID: eid, Status: domain.JobPending}, nil
}

func (m *mockJobQueue) RunOnce(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.ranOnce, nil
}

func (m *mockJobQueue) Run(ctx context.Context) error {
	m.runCalls++
	return m.err
}

func (m *mockJobQueue) Stop() error { return nil }

func (m *mockJobQueue) List(_ context.Context, status domain.JobStatus, _ int) ([]domain.Job, error) {
	m.status = status
	return m.jobs, m.err
}

// mockNodeEvents implements driving.NodeEventHandler for testing.
type mockNodeEvents struct {
	offline []int64
	deleted []int64
	pages   []string
	err     error
}

func (m *mockNodeEvents) NodeOffline(_ context.Context, eid int64) error {
	m.offline = append(m.offline, eid)
	return m.err
}

func (m *mockNodeEvents) NodeDeleted(_ context.Context, eid int64) error {
	m.deleted = append(m.deleted, eid)
	return m.err
}

func (m *mockNodeEvents) PageStored(_ context.Context, doc domain.IndexDocument) error {
	m.pages = append(m.pages, doc.ID)
	return m.err
}

// mockImporter implements driving.Importer for testing.
type mockImporter struct {
	fixture domain.Fixture
	err     error
}

func (m *mockImporter) Import(_ context.Context, f domain.Fixture) (*domain.ImportSummary, error) {
	m.fixture = f
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ImportSummary{
		FileUsages:    len(f.FileUsages),
		ContentValues: len(f.ContentValues),
		Documents:     len(f.Documents),
		Scheduled:     1,
	}, nil
}

// mockConfigService implements driving.ConfigService for testing.
type mockConfigService struct {
	cfg    domain.AppConfig
	values map[string]any
	err    error
}

func (m *mockConfigService) Get() (*domain.AppConfig, error) {
	if m.err != nil {
		return nil, m.err
	}
	cfg := m.cfg
	return &cfg, nil
}

func (m *mockConfigService) Set(key string, value any) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = value
	return nil
}

var errBoom = errors.New("boom")

// withServices installs services for one test and restores the previous set.
func withServices(s Services) func() {
	old := Services{
		Reconciler:    reconciler,
		JobQueue:      jobQueue,
		NodeEvents:    nodeEvents,
		Importer:      importer,
		ConfigService: configService,
	}
	SetServices(s)
	return func() { SetServices(old) }
}

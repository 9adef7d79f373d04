package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "pagemedia-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, "content.db", filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_MigrationsAreRecorded(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(domain.StorageConfig{Driver: "oracle"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_PostgresRequiresDSN(t *testing.T) {
	_, err := Open(domain.StorageConfig{Driver: domain.StoragePostgres})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_SQLiteDataDir(t *testing.T) {
	store, err := Open(domain.StorageConfig{Driver: domain.StorageSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	defer store.Close()
	assert.NotEmpty(t, store.Path())
}

func TestRebind(t *testing.T) {
	s := &Store{dialect: dialectPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)",
		s.rebind("SELECT a FROM t WHERE x = ? AND y IN (?, ?)"))

	s = &Store{dialect: dialectSQLite}
	assert.Equal(t, "x = ?", s.rebind("x = ?"))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestClosedStore_ReturnsStorageUnavailable(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.UsageStore().FileUsagesByElement(context.Background(), domain.UsageTypeElement, 1)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

// ==================== UsageStore Tests ====================

func TestUsageStore_FileUsagesByElement(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveFileUsage(ctx, domain.FileUsage{
		FileID: "F", FileVersion: 2, UsageType: domain.UsageTypeElement, UsageID: 42,
		Status: domain.UsageStatusOnline | domain.UsageStatusLatest,
	}))
	require.NoError(t, store.SaveFileUsage(ctx, domain.FileUsage{
		FileID: "G", FileVersion: 1, UsageType: domain.UsageTypeElement, UsageID: 42,
		Status: domain.UsageStatusOld,
	}))
	require.NoError(t, store.SaveFileUsage(ctx, domain.FileUsage{
		FileID: "F", FileVersion: 2, UsageType: domain.UsageTypeElement, UsageID: 43,
		Status: domain.UsageStatusOnline,
	}))

	usages, err := store.UsageStore().FileUsagesByElement(ctx, domain.UsageTypeElement, 42)
	require.NoError(t, err)
	require.Len(t, usages, 2)
	assert.Equal(t, "F", usages[0].FileID)
	assert.True(t, usages[0].IsOnline())
	assert.Equal(t, "G", usages[1].FileID)
	assert.False(t, usages[1].IsOnline())
}

func TestUsageStore_SaveFileUsage_Upserts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	u := domain.FileUsage{FileID: "F", FileVersion: 1, UsageType: domain.UsageTypeElement, UsageID: 7, Status: domain.UsageStatusOnline}
	require.NoError(t, store.SaveFileUsage(ctx, u))
	u.Status = domain.UsageStatusOld
	require.NoError(t, store.SaveFileUsage(ctx, u))

	usages, err := store.UsageStore().FileUsagesByFile(ctx, domain.FileRef{ID: "F", Version: 1}, domain.UsageTypeElement)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, domain.UsageStatusOld, usages[0].Status)
}

func TestUsageStore_FileUsagesByFile_MatchesVersion(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, u := range []domain.FileUsage{
		{FileID: "F", FileVersion: 1, UsageType: domain.UsageTypeElement, UsageID: 10, Status: 1},
		{FileID: "F", FileVersion: 2, UsageType: domain.UsageTypeElement, UsageID: 11, Status: 1},
		{FileID: "F", FileVersion: 2, UsageType: domain.UsageTypeElement, UsageID: 12, Status: 1},
	} {
		require.NoError(t, store.SaveFileUsage(ctx, u))
	}

	usages, err := store.UsageStore().FileUsagesByFile(ctx, domain.FileRef{ID: "F", Version: 2}, domain.UsageTypeElement)
	require.NoError(t, err)
	require.Len(t, usages, 2)
	assert.Equal(t, int64(11), usages[0].UsageID)
	assert.Equal(t, int64(12), usages[1].UsageID)
}

func TestUsageStore_DeleteFileUsages(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveFileUsage(ctx, domain.FileUsage{FileID: "F", FileVersion: 1, UsageType: domain.UsageTypeElement, UsageID: 5, Status: 1}))
	require.NoError(t, store.DeleteFileUsages(ctx, domain.UsageTypeElement, 5))

	usages, err := store.UsageStore().FileUsagesByElement(ctx, domain.UsageTypeElement, 5)
	require.NoError(t, err)
	assert.Empty(t, usages)
}

func TestUsageStore_FolderUsages(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveFolderUsage(ctx, domain.FolderUsage{FolderID: "9", UsageType: domain.UsageTypeElement, UsageID: 42, Status: 1}))
	require.NoError(t, store.SaveFolderUsage(ctx, domain.FolderUsage{FolderID: "7", UsageType: "other", UsageID: 1, Status: 1}))

	usages, err := store.UsageStore().FolderUsages(ctx, domain.UsageTypeElement)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, "9", usages[0].FolderID)
	assert.Equal(t, int64(42), usages[0].UsageID)
}

// ==================== ContentValueStore Tests ====================

func seedContent(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	for _, v := range []domain.ContentValue{
		{ElementID: 42, Version: 3, Language: "en", FieldType: "file", Content: "F;2"},
		{ElementID: 42, Version: 3, Language: "en", FieldType: "folder", Content: "9"},
		{ElementID: 42, Version: 2, Language: "en", FieldType: "file", Content: "OLD;1"},
	} {
		require.NoError(t, store.SaveContentValue(ctx, v))
	}
}

func TestContentValueStore_Exists(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	seedContent(t, store)
	ctx := context.Background()
	cs := store.ContentValueStore()

	tests := []struct {
		name  string
		query domain.ContentQuery
		want  bool
	}{
		{
			name:  "file token",
			query: domain.ContentQuery{ElementID: 42, Language: "en", Version: 3, Contents: []string{"F;2", "5"}},
			want:  true,
		},
		{
			name:  "other version",
			query: domain.ContentQuery{ElementID: 42, Language: "en", Version: 2, Contents: []string{"F;2"}},
			want:  false,
		},
		{
			name:  "other language",
			query: domain.ContentQuery{ElementID: 42, Language: "de", Version: 3, Contents: []string{"F;2"}},
			want:  false,
		},
		{
			name:  "field type allowed",
			query: domain.ContentQuery{ElementID: 42, Language: "en", Version: 3, Contents: []string{"9"}, FieldTypes: []string{"folder"}},
			want:  true,
		},
		{
			name:  "field type filtered",
			query: domain.ContentQuery{ElementID: 42, Language: "en", Version: 3, Contents: []string{"9"}, FieldTypes: []string{"file"}},
			want:  false,
		},
		{
			name:  "no contents",
			query: domain.ContentQuery{ElementID: 42, Language: "en", Version: 3},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cs.Exists(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentValueStore_DeleteContentValues(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	seedContent(t, store)
	ctx := context.Background()

	require.NoError(t, store.DeleteContentValues(ctx, 42, 3, "en"))

	ok, err := store.ContentValueStore().Exists(ctx, domain.ContentQuery{ElementID: 42, Language: "en", Version: 3, Contents: []string{"F;2"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

// ==================== TreeStore Tests ====================

func TestTreeStore_PublishedVersion(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SavePublishedNode(ctx, domain.PublishedNode{
		SiterootID: "main", NodeID: 100, ElementID: 42, Language: "en", Version: 3,
	}))

	version, ok, err := store.TreeStore().PublishedVersion(ctx, "main", 100, "en")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, version)

	_, ok, err = store.TreeStore().PublishedVersion(ctx, "main", 100, "de")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTreeStore_RepublishAndUnpublish(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	n := domain.PublishedNode{SiterootID: "main", NodeID: 100, ElementID: 42, Language: "en", Version: 3}
	require.NoError(t, store.SavePublishedNode(ctx, n))
	n.Version = 4
	require.NoError(t, store.SavePublishedNode(ctx, n))

	version, ok, err := store.TreeStore().PublishedVersion(ctx, "main", 100, "en")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, version)

	require.NoError(t, store.DeletePublishedNode(ctx, "main", 100, "en"))
	_, ok, err = store.TreeStore().PublishedVersion(ctx, "main", 100, "en")
	require.NoError(t, err)
	assert.False(t, ok)
}

// ==================== SiterootStore Tests ====================

func TestSiterootStore_Properties(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveSiteroot(ctx, "main", map[string]string{
		domain.PropertyFolderRecursive: "1",
		"indexer.elements.media.image":  "1",
	}))

	props, err := store.SiterootStore().Properties(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "1", props[domain.PropertyFolderRecursive])
	assert.Len(t, props, 2)
}

func TestSiterootStore_SaveReplacesProperties(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveSiteroot(ctx, "main", map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, store.SaveSiteroot(ctx, "main", map[string]string{"c": "3"}))

	props, err := store.SiterootStore().Properties(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c": "3"}, props)
}

func TestSiterootStore_EmptyProperties(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveSiteroot(ctx, "bare", nil))

	props, err := store.SiterootStore().Properties(ctx, "bare")
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestSiterootStore_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.SiterootStore().Properties(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

const fixtureJSON = `{
  "file_usages": [
    {"file_id": "F", "file_version": 2, "usage_type": "element", "usage_id": 42, "status": 3}
  ],
  "content_values": [
    {"eid": 42, "version": 3, "language": "en", "type": "file", "content": "F;2"}
  ],
  "published_nodes": [
    {"siteroot_id": "main", "node_id": 100, "eid": 42, "language": "en", "version": 3}
  ],
  "siteroots": {"main": {"indexer.elements.media.folder.recursiv": "0"}},
  "documents": [
    {"id": "media_F_2", "kind": "media", "fields": {"file_id": "F", "file_version": 2}},
    {"id": "page_100_en", "kind": "page", "fields": {"typeId": 42, "nodeId": 100, "siterootId": "main", "language": "en"}}
  ]
}`

func TestImportCmd_LoadsFixture(t *testing.T) {
	imp := &mockImporter{}
	defer withServices(Services{Importer: imp})()

	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0600))

	out, err := executeCommand("import", path)

	require.NoError(t, err)
	require.Len(t, imp.fixture.FileUsages, 1)
	assert.Equal(t, domain.FileUsage{FileID: "F", FileVersion: 2, UsageType: "element", UsageID: 42, Status: 3}, imp.fixture.FileUsages[0])
	require.Len(t, imp.fixture.PublishedNodes, 1)
	assert.Equal(t, int64(100), imp.fixture.PublishedNodes[0].NodeID)
	require.Len(t, imp.fixture.Documents, 2)

	page := domain.PageDocumentFromIndex(imp.fixture.Documents[1])
	assert.Equal(t, int64(42), page.TypeID)
	assert.Equal(t, "main", page.SiterootID)

	assert.Contains(t, out, "Imported 1 file usages")
	assert.Contains(t, out, "Queued 1 page reconciliations")
}

func TestImportCmd_MissingFile(t *testing.T) {
	defer withServices(Services{Importer: &mockImporter{}})()

	_, err := executeCommand("import", filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open fixture")
}

func TestImportCmd_InvalidJSON(t *testing.T) {
	defer withServices(Services{Importer: &mockImporter{}})()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := executeCommand("import", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode fixture")
}

func TestImportCmd_NotConfigured(t *testing.T) {
	defer withServices(Services{})()

	_, err := executeCommand("import", "whatever.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "import service not configured")
}

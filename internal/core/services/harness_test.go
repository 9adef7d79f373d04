package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	indexmemory "github.com/custodia-labs/pagemedia/internal/adapters/driven/index/memory"
	lockmemory "github.com/custodia-labs/pagemedia/internal/adapters/driven/lock/memory"
	"github.com/custodia-labs/pagemedia/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// world wires a reconciler over in-memory stores and index.
type world struct {
	usage   *memory.UsageStore
	content *memory.ContentValueStore
	tree    *memory.TreeStore
	sites   *memory.SiterootStore
	index   *indexmemory.Index
	schema  *DocumentSchema
	locker  *lockmemory.Locker
}

func newWorld() *world {
	schema := NewDocumentSchema()
	return &world{
		usage:   memory.NewUsageStore(),
		content: memory.NewContentValueStore(),
		tree:    memory.NewTreeStore(),
		sites:   memory.NewSiterootStore(),
		index:   indexmemory.NewIndex(schema.CreatedHook()),
		schema:  schema,
		locker:  lockmemory.NewLocker(),
	}
}

type worldOptions struct {
	usage      UsageResolverOptions
	reconciler ReconcilerOptions
	usageStore driven.UsageStore
	observers  []driven.MapObserver
}

func (w *world) reconciler(opts worldOptions) *Reconciler {
	var usageStore driven.UsageStore = w.usage
	if opts.usageStore != nil {
		usageStore = opts.usageStore
	}
	return NewReconciler(
		NewUsageResolver(usageStore, opts.usage),
		NewPageLocator(w.index),
		NewContainmentVerifier(w.tree, w.content),
		NewFieldMerger(opts.observers...),
		w.schema,
		NewPolicyResolver(w.sites),
		w.index,
		w.locker,
		opts.reconciler,
	)
}

// addMedia indexes a media document for a file version.
func (w *world) addMedia(t *testing.T, fileID string, version int, fields map[string]any) string {
	t.Helper()
	id := domain.MediaIdentity(fileID, version)
	body := map[string]any{
		domain.FieldFileID:      fileID,
		domain.FieldFileVersion: version,
	}
	for k, v := range fields {
		body[k] = v
	}
	err := w.index.Bulk(context.Background(), []driven.IndexOperation{{
		Type:     driven.OpAdd,
		Document: domain.IndexDocument{ID: id, Kind: domain.KindMedia, Fields: body},
	}})
	require.NoError(t, err)
	return id
}

// addPage indexes a page document.
func (w *world) addPage(t *testing.T, page domain.PageDocument) {
	t.Helper()
	err := w.index.Bulk(context.Background(), []driven.IndexOperation{{
		Type:     driven.OpAdd,
		Document: page.IndexDocument(),
	}})
	require.NoError(t, err)
}

// useFile records an online usage of a file version by an element.
func (w *world) useFile(fileID string, version int, eid int64) {
	w.usage.AddFileUsage(domain.FileUsage{
		FileID:      fileID,
		FileVersion: version,
		UsageType:   domain.UsageTypeElement,
		UsageID:     eid,
		Status:      domain.UsageStatusOnline | domain.UsageStatusLatest,
	})
}

// publish publishes a node revision and its content values.
func (w *world) publish(siteroot string, node, eid int64, language string, version int, contents ...domain.ContentValue) {
	w.tree.Publish(domain.PublishedNode{
		SiterootID: siteroot,
		NodeID:     node,
		ElementID:  eid,
		Language:   language,
		Version:    version,
	})
	for _, c := range contents {
		c.ElementID = eid
		c.Language = language
		c.Version = version
		w.content.Add(c)
	}
}

func (w *world) media(t *testing.T, id string) *domain.MediaDocument {
	t.Helper()
	doc, err := w.index.Get(context.Background(), id)
	require.NoError(t, err)
	return domain.NewMediaDocument(*doc)
}

func fileValue(token string) domain.ContentValue {
	return domain.ContentValue{FieldType: domain.StructureFieldFile, Content: token}
}

func folderValue(folderID string) domain.ContentValue {
	return domain.ContentValue{FieldType: domain.StructureFieldFolder, Content: folderID}
}

func pageDoc(id string, eid, node int64, siteroot, language string) domain.PageDocument {
	return domain.PageDocument{ID: id, TypeID: eid, NodeID: node, SiterootID: siteroot, Language: language}
}

// failingUsageStore fails every query.
type failingUsageStore struct {
	err error
}

func (s failingUsageStore) FileUsagesByElement(context.Context, string, int64) ([]domain.FileUsage, error) {
	return nil, s.err
}

func (s failingUsageStore) FileUsagesByFile(context.Context, domain.FileRef, string) ([]domain.FileUsage, error) {
	return nil, s.err
}

func (s failingUsageStore) FolderUsages(context.Context, string) ([]domain.FolderUsage, error) {
	return nil, s.err
}

package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driving"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// Ensure Importer implements the interface.
var _ driving.Importer = (*Importer)(nil)

// Importer writes fixtures into the relational stores and the index.
type Importer struct {
	writer driven.ContentWriter
	index  driven.SearchIndex
	events driving.NodeEventHandler
}

// NewImporter creates an importer. events may be nil, in which case
// stored pages schedule nothing.
func NewImporter(writer driven.ContentWriter, index driven.SearchIndex, events driving.NodeEventHandler) *Importer {
	return &Importer{writer: writer, index: index, events: events}
}

// Import writes relational rows first, then documents in one bulk
// submission, then schedules reconciliation for stored pages.
func (i *Importer) Import(ctx context.Context, f domain.Fixture) (*domain.ImportSummary, error) {
	summary := &domain.ImportSummary{}

	for _, u := range f.FileUsages {
		if err := i.writer.SaveFileUsage(ctx, u); err != nil {
			return summary, fmt.Errorf("import file usage %s;%d: %w", u.FileID, u.FileVersion, err)
		}
		summary.FileUsages++
	}
	for _, u := range f.FolderUsages {
		if err := i.writer.SaveFolderUsage(ctx, u); err != nil {
			return summary, fmt.Errorf("import folder usage %s: %w", u.FolderID, err)
		}
		summary.FolderUsages++
	}
	for _, v := range f.ContentValues {
		if err := i.writer.SaveContentValue(ctx, v); err != nil {
			return summary, fmt.Errorf("import content value of %d: %w", v.ElementID, err)
		}
		summary.ContentValues++
	}
	for _, n := range f.PublishedNodes {
		if err := i.writer.SavePublishedNode(ctx, n); err != nil {
			return summary, fmt.Errorf("import node %d: %w", n.NodeID, err)
		}
		summary.PublishedNodes++
	}
	for id, props := range f.Siteroots {
		if err := i.writer.SaveSiteroot(ctx, id, props); err != nil {
			return summary, fmt.Errorf("import siteroot %s: %w", id, err)
		}
		summary.Siteroots++
	}

	if len(f.Documents) > 0 {
		ops := make([]driven.IndexOperation, 0, len(f.Documents))
		for _, doc := range f.Documents {
			if doc.ID == "" {
				return summary, fmt.Errorf("%w: document without identity", domain.ErrInvalidInput)
			}
			ops = append(ops, driven.IndexOperation{Type: driven.OpAdd, Document: doc})
		}
		if err := i.index.Bulk(ctx, ops); err != nil {
			return summary, fmt.Errorf("import documents: %w", err)
		}
		summary.Documents = len(ops)
	}

	if i.events != nil {
		for _, doc := range f.Documents {
			if doc.Kind != domain.KindPage {
				continue
			}
			if err := i.events.PageStored(ctx, doc); err != nil {
				return summary, fmt.Errorf("schedule page %s: %w", doc.ID, err)
			}
			summary.Scheduled++
		}
	}

	logger.Info("import finished",
		"usages", summary.FileUsages,
		"contentValues", summary.ContentValues,
		"nodes", summary.PublishedNodes,
		"documents", summary.Documents)
	return summary, nil
}

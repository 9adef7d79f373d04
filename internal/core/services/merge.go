package services

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// FieldMerger folds verified page attributes into a media document's
// owned fields with set semantics.
type FieldMerger struct {
	mapping   []domain.FieldMapping
	types     map[string]domain.FieldType
	observers []driven.MapObserver
}

// NewFieldMerger creates a merger using the page-to-media mapping.
// Observers are notified after every merge.
func NewFieldMerger(observers ...driven.MapObserver) *FieldMerger {
	types := make(map[string]domain.FieldType)
	for _, spec := range domain.OwnedMediaFields() {
		types[spec.Name] = spec.Type
	}
	return &FieldMerger{
		mapping:   domain.PageToMediaMapping(),
		types:     types,
		observers: observers,
	}
}

// Merge unions the page's attributes into the media document and ORs
// the restricted flag.
func (m *FieldMerger) Merge(ctx context.Context, media *domain.MediaDocument, page domain.PageDocument) {
	for _, fm := range m.mapping {
		m.mergeField(media, fm.MediaField, page.Value(fm.PageField))
	}

	media.Set(domain.FieldRestricted, media.Restricted() || page.Restricted)

	m.notify(ctx, media, page)
}

func (m *FieldMerger) mergeField(media *domain.MediaDocument, field string, pageValue any) {
	switch m.types[field] {
	case domain.FieldTypeInteger:
		values := append(domain.Int64Values(media.Get(field)), domain.Int64Values(pageValue)...)
		media.Set(field, domain.Int64Values(values))
	default:
		values := append(domain.StringValues(media.Get(field)), domain.StringValues(pageValue)...)
		media.Set(field, domain.StringValues(values))
	}
}

// notify fires observers on a copy; their errors never affect the merge.
func (m *FieldMerger) notify(ctx context.Context, media *domain.MediaDocument, page domain.PageDocument) {
	for _, o := range m.observers {
		if err := o.OnMapped(ctx, media.Clone(), page); err != nil {
			logger.Warn("map observer failed", "media", media.ID(), "page", page.ID, "error", err)
		}
	}
}

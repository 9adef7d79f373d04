package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// PageLocator finds indexed page documents of an element.
type PageLocator struct {
	index driven.SearchIndex
}

// NewPageLocator creates a page locator.
func NewPageLocator(index driven.SearchIndex) *PageLocator {
	return &PageLocator{index: index}
}

// FindByType returns every indexed page of the element across all
// languages and siteroots. Index failures are propagated, not retried.
func (l *PageLocator) FindByType(ctx context.Context, typeID int64) ([]domain.PageDocument, error) {
	docs, err := l.index.Search(ctx, domain.KindPage, driven.TermFilter{domain.PageFieldTypeID: typeID})
	if err != nil {
		return nil, fmt.Errorf("pages of element %d: %w", typeID, err)
	}

	pages := make([]domain.PageDocument, 0, len(docs))
	for _, doc := range docs {
		pages = append(pages, domain.PageDocumentFromIndex(doc))
	}
	sort.Slice(pages, func(i, j int) bool {
		a, b := pages[i], pages[j]
		if a.SiterootID != b.SiterootID {
			return a.SiterootID < b.SiterootID
		}
		if a.NodeID != b.NodeID {
			return a.NodeID < b.NodeID
		}
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		return a.ID < b.ID
	})
	return pages, nil
}

// FindMedia returns media documents matching a term filter.
func (l *PageLocator) FindMedia(ctx context.Context, filter driven.TermFilter) ([]*domain.MediaDocument, error) {
	docs, err := l.index.Search(ctx, domain.KindMedia, filter)
	if err != nil {
		return nil, fmt.Errorf("media search: %w", err)
	}
	media := make([]*domain.MediaDocument, 0, len(docs))
	for _, doc := range docs {
		media = append(media, domain.NewMediaDocument(doc))
	}
	return media, nil
}

package driven

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// MapObserver is notified after a page has been merged into a media
// document. Observers receive a copy and cannot influence the merge.
type MapObserver interface {
	OnMapped(ctx context.Context, media *domain.MediaDocument, page domain.PageDocument) error
}

// MapObserverFunc adapts a function to MapObserver.
type MapObserverFunc func(ctx context.Context, media *domain.MediaDocument, page domain.PageDocument) error

// OnMapped calls f.
func (f MapObserverFunc) OnMapped(ctx context.Context, media *domain.MediaDocument, page domain.PageDocument) error {
	return f(ctx, media, page)
}

package driven

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// ContentWriter writes the relational content state read by the usage,
// content value, tree and siteroot stores.
type ContentWriter interface {
	SaveFileUsage(ctx context.Context, u domain.FileUsage) error
	SaveFolderUsage(ctx context.Context, u domain.FolderUsage) error
	SaveContentValue(ctx context.Context, v domain.ContentValue) error
	SavePublishedNode(ctx context.Context, n domain.PublishedNode) error
	DeletePublishedNode(ctx context.Context, siterootID string, nodeID int64, language string) error
	SaveSiteroot(ctx context.Context, siterootID string, props map[string]string) error
}

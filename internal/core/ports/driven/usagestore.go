package driven

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// UsageStore reads media usage records from the relational store.
// Failures to reach the store wrap domain.ErrStorageUnavailable.
type UsageStore interface {
	// FileUsagesByElement returns all file usages owned by an element.
	FileUsagesByElement(ctx context.Context, usageType string, usageID int64) ([]domain.FileUsage, error)

	// FileUsagesByFile returns all usages of one file version.
	FileUsagesByFile(ctx context.Context, file domain.FileRef, usageType string) ([]domain.FileUsage, error)

	// FolderUsages returns all folder usages of a usage type.
	FolderUsages(ctx context.Context, usageType string) ([]domain.FolderUsage, error)
}

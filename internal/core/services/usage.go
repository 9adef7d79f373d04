package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// UsageResolverOptions configures usage resolution.
type UsageResolverOptions struct {
	// FolderUsage also resolves elements that use one of the file's
	// ancestor folders. Disabled by default.
	FolderUsage bool
}

// UsageResolver finds the elements that transactionally reference a file.
type UsageResolver struct {
	store driven.UsageStore
	opts  UsageResolverOptions
}

// NewUsageResolver creates a usage resolver.
func NewUsageResolver(store driven.UsageStore, opts UsageResolverOptions) *UsageResolver {
	return &UsageResolver{store: store, opts: opts}
}

// Resolve returns the distinct ids of elements with an online usage of
// the media document's file. The result is sorted but callers must not
// rely on any order.
func (r *UsageResolver) Resolve(ctx context.Context, media *domain.MediaDocument) ([]int64, error) {
	file, err := media.File()
	if err != nil {
		return nil, err
	}

	usages, err := r.store.FileUsagesByFile(ctx, file, domain.UsageTypeElement)
	if err != nil {
		return nil, fmt.Errorf("file usages of %s: %w", file.Token(), err)
	}

	seen := make(map[int64]struct{})
	for _, u := range usages {
		if !u.IsOnline() {
			continue
		}
		seen[u.UsageID] = struct{}{}
	}

	if r.opts.FolderUsage {
		ids, err := r.folderElements(ctx, media.ParentFolderIDs())
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}

	eids := make([]int64, 0, len(seen))
	for id := range seen {
		eids = append(eids, id)
	}
	sort.Slice(eids, func(i, j int) bool { return eids[i] < eids[j] })

	logger.Debug("resolved file usage", "file", file.Token(), "elements", eids)
	return eids, nil
}

// folderElements returns elements with an online usage of any folder in
// the ancestor chain.
func (r *UsageResolver) folderElements(ctx context.Context, parentFolderIDs []string) ([]int64, error) {
	if len(parentFolderIDs) == 0 {
		return nil, nil
	}
	chain := make(map[string]struct{}, len(parentFolderIDs))
	for _, id := range parentFolderIDs {
		chain[id] = struct{}{}
	}

	usages, err := r.store.FolderUsages(ctx, domain.UsageTypeElement)
	if err != nil {
		return nil, fmt.Errorf("folder usages: %w", err)
	}

	var eids []int64
	for _, u := range usages {
		if !u.IsOnline() {
			continue
		}
		if _, ok := chain[u.FolderID]; ok {
			eids = append(eids, u.UsageID)
		}
	}
	return eids, nil
}

// ElementFiles returns the file versions an element uses online.
func (r *UsageResolver) ElementFiles(ctx context.Context, elementID int64) ([]domain.FileRef, error) {
	usages, err := r.store.FileUsagesByElement(ctx, domain.UsageTypeElement, elementID)
	if err != nil {
		return nil, fmt.Errorf("file usages of element %d: %w", elementID, err)
	}

	var files []domain.FileRef
	seen := make(map[domain.FileRef]struct{})
	for _, u := range usages {
		if !u.IsOnline() {
			continue
		}
		ref := u.File()
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		files = append(files, ref)
	}
	return files, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// ContainmentVerifier checks usage records against the structured content
// of the currently published page revision. Usage records are write-time
// hints; this check is the read-time ground truth.
type ContainmentVerifier struct {
	tree    driven.TreeStore
	content driven.ContentValueStore
}

// NewContainmentVerifier creates a containment verifier.
func NewContainmentVerifier(tree driven.TreeStore, content driven.ContentValueStore) *ContainmentVerifier {
	return &ContainmentVerifier{tree: tree, content: content}
}

// Contains reports whether the page's published revision references the
// media file or one of its folders. A page without a published revision
// in its language never contains anything.
func (v *ContainmentVerifier) Contains(
	ctx context.Context,
	media *domain.MediaDocument,
	page domain.PageDocument,
	policy domain.SitePolicy,
) (bool, error) {
	version, ok, err := v.tree.PublishedVersion(ctx, page.SiterootID, page.NodeID, page.Language)
	if err != nil {
		return false, fmt.Errorf("published version of node %d (%s): %w", page.NodeID, page.Language, err)
	}
	if !ok {
		logger.Debug("no published version", "node", page.NodeID, "language", page.Language)
		return false, nil
	}

	file, err := media.File()
	if err != nil {
		return false, err
	}

	q := domain.ContentQuery{
		ElementID:  page.TypeID,
		Language:   page.Language,
		Version:    version,
		Contents:   CandidateContents(media, file, policy),
		FieldTypes: policy.IndexableFieldTypes,
	}

	found, err := v.content.Exists(ctx, q)
	if err != nil {
		return false, fmt.Errorf("content values of element %d: %w", page.TypeID, err)
	}
	return found, nil
}

// CandidateContents returns the content values that count as a reference
// to the file. Recursive sites match any ancestor folder; otherwise only
// the file token and the immediate folder match.
func CandidateContents(media *domain.MediaDocument, file domain.FileRef, policy domain.SitePolicy) []string {
	var candidates []string
	if policy.FolderRecursive {
		candidates = append(candidates, media.ParentFolderIDs()...)
		candidates = append(candidates, file.Token())
	} else {
		candidates = append(candidates, file.Token())
		if folderID := media.FolderID(); folderID != "" {
			candidates = append(candidates, folderID)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

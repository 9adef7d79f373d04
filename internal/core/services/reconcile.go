package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driving"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.Reconciler = (*Reconciler)(nil)

// ReconcilerOptions configures a Reconciler.
type ReconcilerOptions struct {
	// Workers bounds how many media documents are rebuilt concurrently.
	// Values below 1 mean 1.
	Workers int

	// AssetTypeGate skips pages whose site does not index the media type.
	// Disabled by default.
	AssetTypeGate bool
}

// Reconciler rebuilds the owned fields of every media document affected
// by a change to one element. Each document is cleared and rebuilt from
// all pages that might reference it, then persisted in one write.
type Reconciler struct {
	usage    *UsageResolver
	locator  *PageLocator
	verifier *ContainmentVerifier
	merger   *FieldMerger
	schema   *DocumentSchema
	policies *PolicyResolver
	index    driven.SearchIndex
	locker   driven.IdentityLocker
	opts     ReconcilerOptions
}

// NewReconciler creates a reconciler. The locker is optional; when nil
// concurrent runs touching the same document are last-write-wins.
func NewReconciler(
	usage *UsageResolver,
	locator *PageLocator,
	verifier *ContainmentVerifier,
	merger *FieldMerger,
	schema *DocumentSchema,
	policies *PolicyResolver,
	index driven.SearchIndex,
	locker driven.IdentityLocker,
	opts ReconcilerOptions,
) *Reconciler {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Reconciler{
		usage:    usage,
		locator:  locator,
		verifier: verifier,
		merger:   merger,
		schema:   schema,
		policies: policies,
		index:    index,
		locker:   locker,
		opts:     opts,
	}
}

// Reconcile runs one reconciliation for an element.
func (r *Reconciler) Reconcile(ctx context.Context, elementID int64) (*domain.ReconcileResult, error) {
	if elementID <= 0 {
		return nil, fmt.Errorf("%w: element id %d", domain.ErrInvalidInput, elementID)
	}

	result := &domain.ReconcileResult{
		RunID:     uuid.NewString(),
		ElementID: elementID,
		StartedAt: time.Now(),
	}
	logger.Section(fmt.Sprintf("Reconcile element %d", elementID))

	affected, err := r.affected(ctx, elementID)
	if err != nil {
		return nil, err
	}
	result.Affected = affected.Identities()
	logger.Info("affected documents", "run", result.RunID, "element", elementID, "count", affected.Len())

	cache := newPolicyCache(r.policies)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, identity := range result.Affected {
		g.Go(func() error {
			err := r.rebuild(gctx, identity, cache)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("rebuild failed", "run", result.RunID, "identity", identity, "error", err)
				result.Failures = append(result.Failures, domain.IdentityFailure{Identity: identity, Err: err})
				return nil
			}
			result.Rebuilt = append(result.Rebuilt, identity)
			return nil
		})
	}
	// Workers never return errors; failures are collected per identity.
	_ = g.Wait()

	result.EndedAt = time.Now()
	logger.Info("reconcile finished",
		"run", result.RunID,
		"rebuilt", len(result.Rebuilt),
		"failed", len(result.Failures),
		"took", result.EndedAt.Sub(result.StartedAt))
	return result, nil
}

// affected builds the set of media identities touched by the element:
// documents of files the element uses online, plus documents that
// already list the element and may need a stale entry removed.
func (r *Reconciler) affected(ctx context.Context, elementID int64) (*domain.AffectedSet, error) {
	set := domain.NewAffectedSet()

	files, err := r.usage.ElementFiles(ctx, elementID)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		docs, err := r.locator.FindMedia(ctx, driven.TermFilter{
			domain.FieldFileID:      file.ID,
			domain.FieldFileVersion: file.Version,
		})
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			set.Add(doc.ID())
		}
	}

	docs, err := r.locator.FindMedia(ctx, driven.TermFilter{domain.FieldTypeIDs: elementID})
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		set.Add(doc.ID())
	}

	return set, nil
}

// rebuild clears and rebuilds one media document and persists it in a
// single write. On failure the working copy is discarded, so readers
// never observe a cleared document.
func (r *Reconciler) rebuild(ctx context.Context, identity string, cache *policyCache) error {
	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, identity)
		if err != nil {
			return fmt.Errorf("lock %s: %w", identity, err)
		}
		defer unlock()
	}

	stored, err := r.index.Get(ctx, identity)
	if err != nil {
		return fmt.Errorf("load %s: %w", identity, err)
	}

	working := domain.NewMediaDocument(stored.Clone())
	r.schema.Clear(working)

	eids, err := r.usage.Resolve(ctx, working)
	if err != nil {
		return err
	}

	for _, eid := range eids {
		pages, err := r.locator.FindByType(ctx, eid)
		if err != nil {
			return err
		}
		for _, page := range pages {
			policy, err := cache.get(ctx, page.SiterootID)
			if err != nil {
				return err
			}
			if r.opts.AssetTypeGate && !policy.AssetTypeIndexable(working.MediaType()) {
				continue
			}
			ok, err := r.verifier.Contains(ctx, working, page, policy)
			if err != nil {
				return err
			}
			if ok {
				r.merger.Merge(ctx, working, page)
			}
		}
	}

	working.StripTransient()

	op := driven.IndexOperation{Type: driven.OpUpdate, Document: working.IndexDocument()}
	if err := r.index.Bulk(ctx, []driven.IndexOperation{op}); err != nil {
		return fmt.Errorf("store %s: %w", identity, err)
	}

	logger.Debug("rebuilt media document",
		"identity", identity,
		"typeIds", working.TypeIDs(),
		"languages", working.Languages())
	return nil
}

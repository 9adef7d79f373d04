package services

import (
	"context"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driving"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// Ensure NodeEvents implements the interface.
var _ driving.NodeEventHandler = (*NodeEvents)(nil)

// NodeEvents schedules reconciliation when pages change: a node going
// offline, a node being deleted, or a page document being (re)indexed.
type NodeEvents struct {
	queue driving.JobQueue
}

// NewNodeEvents creates a node event handler backed by a job queue.
func NewNodeEvents(queue driving.JobQueue) *NodeEvents {
	return &NodeEvents{queue: queue}
}

// NodeOffline schedules reconciliation of an element taken offline.
func (e *NodeEvents) NodeOffline(ctx context.Context, elementID int64) error {
	return e.schedule(ctx, "node offline", elementID)
}

// NodeDeleted schedules reconciliation of a deleted element.
func (e *NodeEvents) NodeDeleted(ctx context.Context, elementID int64) error {
	return e.schedule(ctx, "node deleted", elementID)
}

// PageStored schedules reconciliation of the element owning a stored page
// document. Other document kinds are ignored.
func (e *NodeEvents) PageStored(ctx context.Context, doc domain.IndexDocument) error {
	if doc.Kind != domain.KindPage {
		return nil
	}
	page := domain.PageDocumentFromIndex(doc)
	if page.TypeID <= 0 {
		logger.Warn("page document without type id", "page", doc.ID)
		return nil
	}
	return e.schedule(ctx, "page stored", page.TypeID)
}

func (e *NodeEvents) schedule(ctx context.Context, reason string, elementID int64) error {
	job, err := e.queue.Enqueue(ctx, elementID)
	if err != nil {
		return err
	}
	logger.Debug("reconciliation scheduled", "reason", reason, "element", elementID, "job", job.ID)
	return nil
}

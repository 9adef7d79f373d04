package domain

import "time"

// IdentityFailure records a media document that could not be rebuilt.
type IdentityFailure struct {
	Identity string
	Err      error
}

// ReconcileResult summarises one reconciliation run.
type ReconcileResult struct {
	// RunID identifies the run in logs.
	RunID string

	// ElementID is the element that triggered the run.
	ElementID int64

	// Affected lists every media identity considered by the run.
	Affected []string

	// Rebuilt lists identities that were rebuilt and persisted.
	Rebuilt []string

	// Failures lists identities whose rebuild failed.
	Failures []IdentityFailure

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run completed.
	EndedAt time.Time
}

// AffectedCount returns the number of affected documents.
func (r *ReconcileResult) AffectedCount() int { return len(r.Affected) }

// HasFailures reports whether any identity failed.
func (r *ReconcileResult) HasFailures() bool { return len(r.Failures) > 0 }

// AffectedSet is the deduplicated working set of media identities for a
// run. Insertion order is preserved.
type AffectedSet struct {
	order []string
	seen  map[string]struct{}
}

// NewAffectedSet creates an empty affected set.
func NewAffectedSet() *AffectedSet {
	return &AffectedSet{seen: make(map[string]struct{})}
}

// Add inserts an identity and reports whether it was new.
func (s *AffectedSet) Add(identity string) bool {
	if _, ok := s.seen[identity]; ok {
		return false
	}
	s.seen[identity] = struct{}{}
	s.order = append(s.order, identity)
	return true
}

// Contains reports whether the identity is in the set.
func (s *AffectedSet) Contains(identity string) bool {
	_, ok := s.seen[identity]
	return ok
}

// Len returns the number of identities.
func (s *AffectedSet) Len() int { return len(s.order) }

// Identities returns the identities in insertion order.
func (s *AffectedSet) Identities() []string {
	return append([]string(nil), s.order...)
}

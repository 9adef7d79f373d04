// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The reconciliation engine lives here: UsageResolver, PageLocator,
// ContainmentVerifier and FieldMerger are composed by Reconciler, which
// JobQueue and NodeEvents drive asynchronously.
//
// Services are pure Go with no CGO.
package services

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - UsageStore: Relational file/folder usage records
//   - ContentValueStore: Structured content values of element revisions
//   - TreeStore: Published versions of tree nodes
//   - SiterootStore: Siteroot property bags
//   - SearchIndex: Page and media documents
//   - ConfigStore: Application configuration
//   - ContentWriter: Loads usage, content and siteroot rows (import only)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - IdentityLocker: Serialises rebuilds of the same media document.
//   - MapObserver: Observes each page merged into a media document.
//   - JobStore: Persists deferred reconciliation jobs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

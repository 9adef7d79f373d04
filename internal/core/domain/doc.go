// Package domain defines the core business entities for pagemedia.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - IndexDocument: A raw search index record (kind + field bag)
//   - MediaDocument: A media file record carrying page usage summaries
//   - PageDocument: A published, language-specific page record
//   - FileUsage / FolderUsage: Relational usage facts
//   - SitePolicy: Typed per-siteroot indexing policy
//   - Job: A queued reconciliation request
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

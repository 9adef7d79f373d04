// Package sqlite provides the relational implementation of the usage,
// content value, tree, siteroot and job store ports.
//
// The default driver is modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO. The same queries run against PostgreSQL through
// the pgx database/sql driver; placeholders are rebound per dialect. All
// stores share one database connection:
//
//   - UsageStore: media_file_usage and media_folder_usage
//   - ContentValueStore: element_structure_value
//   - TreeStore: tree_node_online
//   - SiterootStore: siteroot and siteroot_property
//   - JobStore: reconcile_job
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory as NNN_name.up.sql files.
//
// # Data Location
//
// By default, the SQLite database is stored at ~/.pagemedia/data/content.db
//
// # Thread Safety
//
// All operations are thread-safe. SQLite runs in WAL mode with a busy timeout.
package sqlite

package domain

import "time"

// StorageDriver selects the relational backend.
type StorageDriver string

// Supported storage drivers.
const (
	StorageSQLite   StorageDriver = "sqlite"
	StoragePostgres StorageDriver = "postgres"
)

// IsValid returns true if this is a known driver.
func (d StorageDriver) IsValid() bool {
	return d == StorageSQLite || d == StoragePostgres
}

// String returns the driver name.
func (d StorageDriver) String() string { return string(d) }

// StorageConfig configures the relational store.
type StorageConfig struct {
	// Driver selects sqlite or postgres.
	Driver StorageDriver

	// DSN is the connection string. For sqlite it may be empty, in which
	// case a database under DataDir is used.
	DSN string

	// DataDir holds local databases.
	DataDir string
}

// IndexConfig configures the search index adapter.
type IndexConfig struct {
	// Path is the index database file. Empty means DataDir/index.db.
	Path string
}

// ReconcileConfig configures the reconciliation engine.
type ReconcileConfig struct {
	// Workers bounds how many media documents are rebuilt concurrently.
	Workers int

	// FolderUsage enables resolving element usage through ancestor folders.
	FolderUsage bool

	// AssetTypeGate enables the per-site asset type switches.
	AssetTypeGate bool
}

// LockConfig configures per-identity locking.
type LockConfig struct {
	// RedisAddr enables the redis locker when set.
	RedisAddr string

	// TTL bounds how long a lock is held.
	TTL time.Duration
}

// AppConfig holds all application configuration.
type AppConfig struct {
	Storage   StorageConfig
	Index     IndexConfig
	Reconcile ReconcileConfig
	Queue     QueueConfig
	Lock      LockConfig
}

// DefaultAppConfig returns the default configuration.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Storage: StorageConfig{Driver: StorageSQLite},
		Reconcile: ReconcileConfig{
			Workers: 1,
		},
		Queue: DefaultQueueConfig(),
		Lock:  LockConfig{TTL: 30 * time.Second},
	}
}

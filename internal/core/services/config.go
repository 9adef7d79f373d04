package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driving"
)

// Ensure ConfigService implements the interface.
var _ driving.ConfigService = (*ConfigService)(nil)

// Config keys for configuration storage.
const (
	keyStorageDriver    = "storage.driver"
	keyStorageDSN       = "storage.dsn"
	keyStorageDataDir   = "storage.data_dir"
	keyIndexPath        = "index.path"
	keyWorkers          = "reconcile.workers"
	keyFolderUsage      = "reconcile.folder_usage"
	keyAssetTypeGate    = "reconcile.asset_type_gate"
	keyQueueRate        = "queue.rate"
	keyQueueBurst       = "queue.burst"
	keyQueueMaxAttempts = "queue.max_attempts"
	keyQueuePoll        = "queue.poll_seconds"
	keyQueueRetention   = "queue.retention"
	keyLockRedisAddr    = "lock.redis_addr"
	keyLockTTL          = "lock.ttl_seconds"
)

// ConfigService reads and writes typed application configuration.
type ConfigService struct {
	configStore driven.ConfigStore
}

// NewConfigService creates a new config service.
func NewConfigService(configStore driven.ConfigStore) *ConfigService {
	return &ConfigService{configStore: configStore}
}

// Get returns the current configuration, falling back to defaults for
// unset keys.
func (s *ConfigService) Get() (*domain.AppConfig, error) {
	defaults := domain.DefaultAppConfig()

	cfg := &domain.AppConfig{
		Storage: domain.StorageConfig{
			Driver:  domain.StorageDriver(s.getString(keyStorageDriver, defaults.Storage.Driver.String())),
			DSN:     s.configStore.GetString(keyStorageDSN),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
		Index: domain.IndexConfig{
			Path: s.configStore.GetString(keyIndexPath),
		},
		Reconcile: domain.ReconcileConfig{
			Workers:       s.getInt(keyWorkers, defaults.Reconcile.Workers),
			FolderUsage:   s.getBool(keyFolderUsage, defaults.Reconcile.FolderUsage),
			AssetTypeGate: s.getBool(keyAssetTypeGate, defaults.Reconcile.AssetTypeGate),
		},
		Queue: domain.QueueConfig{
			Rate:         s.getFloat(keyQueueRate, defaults.Queue.Rate),
			Burst:        s.getInt(keyQueueBurst, defaults.Queue.Burst),
			MaxAttempts:  s.getInt(keyQueueMaxAttempts, defaults.Queue.MaxAttempts),
			PollInterval: s.getSeconds(keyQueuePoll, defaults.Queue.PollInterval),
			Retention:    s.getInt(keyQueueRetention, defaults.Queue.Retention),
		},
		Lock: domain.LockConfig{
			RedisAddr: s.configStore.GetString(keyLockRedisAddr),
			TTL:       s.getSeconds(keyLockTTL, defaults.Lock.TTL),
		},
	}

	if !cfg.Storage.Driver.IsValid() {
		return nil, fmt.Errorf("%w: storage driver %q", domain.ErrInvalidInput, cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == domain.StoragePostgres && cfg.Storage.DSN == "" {
		return nil, fmt.Errorf("%w: postgres requires %s", domain.ErrInvalidInput, keyStorageDSN)
	}
	return cfg, nil
}

// Set stores a single configuration value and persists it.
func (s *ConfigService) Set(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *ConfigService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *ConfigService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

func (s *ConfigService) getFloat(key string, fallback float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return fallback
}

func (s *ConfigService) getBool(key string, fallback bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetBool(key)
}

func (s *ConfigService) getSeconds(key string, fallback time.Duration) time.Duration {
	if v := s.getInt(key, 0); v > 0 {
		return time.Duration(v) * time.Second
	}
	return fallback
}

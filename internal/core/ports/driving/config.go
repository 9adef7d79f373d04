package driving

import "github.com/custodia-labs/pagemedia/internal/core/domain"

// ConfigService reads and writes typed application configuration.
type ConfigService interface {
	// Get returns the effective configuration.
	Get() (*domain.AppConfig, error)

	// Set stores one configuration key.
	Set(key string, value any) error
}

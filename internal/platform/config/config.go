package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"marquee"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	// ReferenceTimezone is the business calendar for all date-driven
	// lifecycle decisions. Campaigns start and end on this calendar, not
	// the host's.
	ReferenceTimezone string `env:"REFERENCE_TIMEZONE" envDefault:"America/Chicago"`

	ReconcileInterval  time.Duration `env:"RECONCILE_INTERVAL" envDefault:"1m"`
	ReconcileBatchSize int           `env:"RECONCILE_BATCH_SIZE" envDefault:"100"`
	ArchiveWorkerLimit int           `env:"ARCHIVE_WORKER_LIMIT" envDefault:"4"`
	ObjectStoreTimeout time.Duration `env:"OBJECT_STORE_TIMEOUT" envDefault:"30s"`
	ArchiveRoot        string        `env:"ARCHIVE_ROOT" envDefault:"/var/lib/marquee/archive"`
	IdempotencyTTL     time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	EnableLifecycleReconciler bool `env:"ENABLE_LIFECYCLE_RECONCILER" envDefault:"true"`
	EnableAssetArchival       bool `env:"ENABLE_ASSET_ARCHIVAL" envDefault:"true"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// BusinessLocation resolves the configured reference timezone.
func (c Config) BusinessLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReferenceTimezone)
	if err != nil {
		return nil, fmt.Errorf("load reference timezone %q: %w", c.ReferenceTimezone, err)
	}
	return loc, nil
}

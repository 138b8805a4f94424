package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	campaignservice "marquee/contexts/kiosk-advertising/campaign-service"
	campaignpostgres "marquee/contexts/kiosk-advertising/campaign-service/adapters/postgres"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"
	pricingengine "marquee/contexts/kiosk-advertising/pricing-engine"
	pricingpostgres "marquee/contexts/kiosk-advertising/pricing-engine/adapters/postgres"
	"marquee/contexts/kiosk-advertising/pricing-engine/application/queries"
	"marquee/internal/platform/config"
	"marquee/internal/platform/db"
	"marquee/internal/platform/httpserver"
	"marquee/internal/platform/messaging"
	"marquee/internal/platform/objectstore"

	"github.com/google/uuid"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	module   campaignservice.Module
	logger   *slog.Logger
}

// quotePricer bridges the pricing engine's quote use case to the
// campaign service's pricing port.
type quotePricer struct {
	quote queries.QuoteSelectionUseCase
}

func (p quotePricer) PriceSelection(ctx context.Context, kioskIDs []string) (ports.PricingSnapshot, error) {
	quote, err := p.quote.Execute(ctx, queries.QuoteSelectionQuery{
		KioskIDs: append([]string(nil), kioskIDs...),
	})
	if err != nil {
		return ports.PricingSnapshot{}, err
	}
	return ports.PricingSnapshot{
		TotalBase:     quote.TotalBase,
		TotalDiscount: quote.TotalDiscount,
		TotalFinal:    quote.TotalFinal,
	}, nil
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	pricingModule, campaignModule, err := buildModules(cfg, pg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	server := httpserver.New(campaignModule, pricingModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	_, campaignModule, err := buildModules(cfg, pg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	return &WorkerApp{
		postgres: pg,
		module:   campaignModule,
		logger:   logger,
	}, nil
}

func buildModules(cfg config.Config, pg *db.Postgres, logger *slog.Logger) (pricingengine.Module, campaignservice.Module, error) {
	location, err := cfg.BusinessLocation()
	if err != nil {
		return pricingengine.Module{}, campaignservice.Module{}, err
	}

	pricingRepo := pricingpostgres.NewRepository(pg.DB, logger)
	pricingModule := pricingengine.NewModule(pricingengine.Dependencies{
		Kiosks:      pricingRepo,
		Settings:    pricingRepo,
		Clock:       pricingpostgres.SystemClock{},
		IDGenerator: pricingpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	bus := messaging.NewBus(logger)
	campaignRepo := campaignpostgres.NewRepository(pg.DB, logger)
	campaignModule := campaignservice.NewModule(campaignservice.Dependencies{
		Campaigns:   campaignRepo,
		History:     campaignRepo,
		Media:       campaignRepo,
		Objects:     objectstore.NewLocal(cfg.ArchiveRoot, logger),
		Idempotency: campaignRepo,
		Pricer:      quotePricer{quote: pricingModule.Quote},
		Sink: messaging.StatusSink{
			Publisher: bus,
			Source:    cfg.ServiceName,
			NewID:     uuid.NewString,
		},
		Clock:       campaignpostgres.SystemClock{},
		IDGenerator: campaignpostgres.UUIDGenerator{},
		Logger:      logger,

		Location:           location,
		ReconcileInterval:  cfg.ReconcileInterval,
		ReconcileBatchSize: cfg.ReconcileBatchSize,
		ReconcileDisabled:  !cfg.EnableLifecycleReconciler,
		ArchiveWorkerLimit: cfg.ArchiveWorkerLimit,
		ArchiveCallTimeout: cfg.ObjectStoreTimeout,
		ArchiveDisabled:    !cfg.EnableAssetArchival,
		IdempotencyTTL:     cfg.IdempotencyTTL,
	})
	return pricingModule, campaignModule, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	w.module.Driver.Start(ctx)
	<-ctx.Done()
	w.module.Driver.Stop()
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

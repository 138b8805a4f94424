package campaignservice

import (
	"log/slog"
	"time"

	httpadapter "marquee/contexts/kiosk-advertising/campaign-service/adapters/http"
	"marquee/contexts/kiosk-advertising/campaign-service/adapters/memory"
	"marquee/contexts/kiosk-advertising/campaign-service/application/commands"
	"marquee/contexts/kiosk-advertising/campaign-service/application/queries"
	"marquee/contexts/kiosk-advertising/campaign-service/application/workers"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	Reconciler workers.LifecycleReconciler
	Driver     *workers.Driver
	Store      *memory.Store
}

type Dependencies struct {
	Campaigns   ports.CampaignRepository
	History     ports.HistoryRepository
	Media       ports.MediaRepository
	Objects     ports.ObjectStore
	Idempotency ports.IdempotencyStore
	Pricer      ports.SelectionPricer
	Sink        ports.NotificationSink
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger

	// Location is the business timezone for date-driven transitions.
	Location           *time.Location
	ReconcileInterval  time.Duration
	ReconcileBatchSize int
	ReconcileDisabled  bool
	ArchiveWorkerLimit int
	ArchiveCallTimeout time.Duration
	ArchiveDisabled    bool
	IdempotencyTTL     time.Duration
}

func NewModule(deps Dependencies) Module {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.IdempotencyTTL <= 0 {
		deps.IdempotencyTTL = 24 * time.Hour
	}

	archiver := workers.AssetArchiver{
		Media:       deps.Media,
		Objects:     deps.Objects,
		Clock:       deps.Clock,
		WorkerLimit: deps.ArchiveWorkerLimit,
		CallTimeout: deps.ArchiveCallTimeout,
		Disabled:    deps.ArchiveDisabled,
		Logger:      deps.Logger,
	}
	reconciler := workers.LifecycleReconciler{
		Campaigns: deps.Campaigns,
		History:   deps.History,
		Archiver:  archiver,
		Sink:      deps.Sink,
		Clock:     deps.Clock,
		Location:  deps.Location,
		BatchSize: deps.ReconcileBatchSize,
		Disabled:  deps.ReconcileDisabled,
		Logger:    deps.Logger,
	}
	driver := &workers.Driver{
		Reconciler: reconciler,
		Interval:   deps.ReconcileInterval,
		Logger:     deps.Logger,
	}

	createCampaign := commands.CreateCampaignUseCase{
		Campaigns:      deps.Campaigns,
		Idempotency:    deps.Idempotency,
		Pricer:         deps.Pricer,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Campaigns: deps.Campaigns,
		History:   deps.History,
		Sink:      deps.Sink,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	attachMedia := commands.AttachMediaUseCase{
		Campaigns: deps.Campaigns,
		Media:     deps.Media,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	reviewMedia := commands.ReviewMediaUseCase{
		Media:  deps.Media,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	getCampaign := queries.GetCampaignUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	listCampaigns := queries.ListCampaignsUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	listMedia := queries.ListMediaUseCase{
		Media:  deps.Media,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign: createCampaign,
			ChangeStatus:   changeStatus,
			AttachMedia:    attachMedia,
			ReviewMedia:    reviewMedia,
			GetCampaign:    getCampaign,
			ListCampaigns:  listCampaigns,
			ListMedia:      listMedia,
			Driver:         driver,
			Logger:         deps.Logger,
		},
		Reconciler: reconciler,
		Driver:     driver,
	}
}

func NewInMemoryModule(
	seedCampaigns []entities.Campaign,
	seedMedia []entities.MediaAsset,
	pricer ports.SelectionPricer,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seedCampaigns, seedMedia)
	module := NewModule(Dependencies{
		Campaigns:   store,
		History:     store,
		Media:       store,
		Objects:     memory.NewObjectStore(),
		Idempotency: store,
		Pricer:      pricer,
		Sink:        memory.NewNotificationSink(),
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

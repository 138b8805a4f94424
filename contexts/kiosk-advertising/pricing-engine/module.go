package pricingengine

import (
	"log/slog"

	httpadapter "marquee/contexts/kiosk-advertising/pricing-engine/adapters/http"
	"marquee/contexts/kiosk-advertising/pricing-engine/adapters/memory"
	"marquee/contexts/kiosk-advertising/pricing-engine/application/commands"
	"marquee/contexts/kiosk-advertising/pricing-engine/application/queries"
	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
	"marquee/contexts/kiosk-advertising/pricing-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Quote   queries.QuoteSelectionUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Kiosks      ports.KioskRepository
	Settings    ports.SettingRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registerKiosk := commands.RegisterKioskUseCase{
		Kiosks: deps.Kiosks,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	createSetting := commands.CreateSettingUseCase{
		Settings: deps.Settings,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	updateSetting := commands.UpdateSettingUseCase{
		Settings: deps.Settings,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	quoteSelection := queries.QuoteSelectionUseCase{
		Kiosks:   deps.Kiosks,
		Settings: deps.Settings,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	listKiosks := queries.ListKiosksUseCase{
		Kiosks: deps.Kiosks,
		Logger: deps.Logger,
	}
	getKiosk := queries.GetKioskUseCase{
		Kiosks: deps.Kiosks,
		Logger: deps.Logger,
	}
	listSettings := queries.ListSettingsUseCase{
		Settings: deps.Settings,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			RegisterKiosk:  registerKiosk,
			CreateSetting:  createSetting,
			UpdateSetting:  updateSetting,
			QuoteSelection: quoteSelection,
			ListKiosks:     listKiosks,
			GetKiosk:       getKiosk,
			ListSettings:   listSettings,
			Logger:         deps.Logger,
		},
		Quote: quoteSelection,
	}
}

func NewInMemoryModule(
	seedKiosks []entities.Kiosk,
	seedSettings []entities.VolumeDiscountSetting,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seedKiosks, seedSettings)
	module := NewModule(Dependencies{
		Kiosks:      store,
		Settings:    store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

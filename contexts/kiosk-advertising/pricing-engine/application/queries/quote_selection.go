package queries

import (
	"context"
	"log/slog"
	"strings"

	application "marquee/contexts/kiosk-advertising/pricing-engine/application"
	domainerrors "marquee/contexts/kiosk-advertising/pricing-engine/domain/errors"
	"marquee/contexts/kiosk-advertising/pricing-engine/domain/services"
	"marquee/contexts/kiosk-advertising/pricing-engine/ports"
)

type QuoteSelectionQuery struct {
	// KioskIDs in caller-supplied selection order. The order decides
	// which kiosks land in a discount tier.
	KioskIDs []string
}

type QuoteSelectionUseCase struct {
	Kiosks   ports.KioskRepository
	Settings ports.SettingRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc QuoteSelectionUseCase) Execute(ctx context.Context, query QuoteSelectionQuery) (services.Quote, error) {
	logger := application.ResolveLogger(uc.Logger)

	ids := make([]string, 0, len(query.KioskIDs))
	seen := make(map[string]struct{}, len(query.KioskIDs))
	for _, raw := range query.KioskIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			return services.Quote{}, domainerrors.ErrDuplicateKioskSelected
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return services.Quote{}, domainerrors.ErrEmptyKioskSelection
	}

	kiosks, err := uc.Kiosks.GetKiosksByIDs(ctx, ids)
	if err != nil {
		return services.Quote{}, err
	}
	settings, err := uc.Settings.ListSettings(ctx, true)
	if err != nil {
		return services.Quote{}, err
	}

	now := uc.Clock.Now().UTC()
	quote := services.PriceSelection(kiosks, settings, now)

	logger.Debug("kiosk selection priced",
		"event", "kiosk_selection_priced",
		"module", "kiosk-advertising/pricing-engine",
		"layer", "application",
		"kiosk_count", len(kiosks),
		"total_final", quote.TotalFinal.String(),
	)
	return quote, nil
}

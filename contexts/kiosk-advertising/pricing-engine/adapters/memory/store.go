package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/pricing-engine/domain/errors"
	"marquee/contexts/kiosk-advertising/pricing-engine/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	kiosks   map[string]entities.Kiosk
	settings map[string]entities.VolumeDiscountSetting

	now time.Time
}

func NewStore(seedKiosks []entities.Kiosk, seedSettings []entities.VolumeDiscountSetting) *Store {
	kiosks := make(map[string]entities.Kiosk, len(seedKiosks))
	for _, item := range seedKiosks {
		kiosks[item.KioskID] = item
	}
	settings := make(map[string]entities.VolumeDiscountSetting, len(seedSettings))
	for _, item := range seedSettings {
		settings[item.SettingID] = item
	}
	return &Store{
		kiosks:   kiosks,
		settings: settings,
	}
}

func (s *Store) CreateKiosk(_ context.Context, kiosk entities.Kiosk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.kiosks[kiosk.KioskID]; exists {
		return domainerrors.ErrInvalidKioskInput
	}
	s.kiosks[kiosk.KioskID] = kiosk
	return nil
}

func (s *Store) GetKiosk(_ context.Context, kioskID string) (entities.Kiosk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.kiosks[strings.TrimSpace(kioskID)]
	if !exists {
		return entities.Kiosk{}, domainerrors.ErrKioskNotFound
	}
	return item, nil
}

func (s *Store) GetKiosksByIDs(_ context.Context, kioskIDs []string) ([]entities.Kiosk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Kiosk, 0, len(kioskIDs))
	for _, id := range kioskIDs {
		item, exists := s.kiosks[strings.TrimSpace(id)]
		if !exists {
			return nil, domainerrors.ErrKioskNotFound
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) ListKiosks(_ context.Context, filter ports.KioskFilter) ([]entities.Kiosk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Kiosk, 0, len(s.kiosks))
	for _, kiosk := range s.kiosks {
		if filter.Status != "" && kiosk.Status != filter.Status {
			continue
		}
		if filter.TrafficLevel != "" && kiosk.TrafficLevel != filter.TrafficLevel {
			continue
		}
		items = append(items, kiosk)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *Store) CreateSetting(_ context.Context, setting entities.VolumeDiscountSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.settings[setting.SettingID]; exists {
		return domainerrors.ErrInvalidSettingInput
	}
	s.settings[setting.SettingID] = setting
	return nil
}

func (s *Store) UpdateSetting(_ context.Context, setting entities.VolumeDiscountSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.settings[setting.SettingID]; !exists {
		return domainerrors.ErrSettingNotFound
	}
	s.settings[setting.SettingID] = setting
	return nil
}

func (s *Store) GetSetting(_ context.Context, settingID string) (entities.VolumeDiscountSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.settings[strings.TrimSpace(settingID)]
	if !exists {
		return entities.VolumeDiscountSetting{}, domainerrors.ErrSettingNotFound
	}
	return item, nil
}

func (s *Store) ListSettings(_ context.Context, onlyActive bool) ([]entities.VolumeDiscountSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.VolumeDiscountSetting, 0, len(s.settings))
	for _, setting := range s.settings {
		if onlyActive && !setting.IsActive {
			continue
		}
		items = append(items, setting)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].MinKiosks != items[j].MinKiosks {
			return items[i].MinKiosks < items[j].MinKiosks
		}
		return items[i].SettingID < items[j].SettingID
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

// SetNow pins the store clock for tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

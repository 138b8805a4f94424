package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	campaigns   map[string]entities.Campaign
	media       map[string]entities.MediaAsset
	stateLog    []entities.StateHistory
	idempotency map[string]ports.IdempotencyRecord

	now time.Time
}

func NewStore(seedCampaigns []entities.Campaign, seedMedia []entities.MediaAsset) *Store {
	campaigns := make(map[string]entities.Campaign, len(seedCampaigns))
	for _, item := range seedCampaigns {
		campaigns[item.CampaignID] = item
	}
	media := make(map[string]entities.MediaAsset, len(seedMedia))
	for _, item := range seedMedia {
		media[item.MediaID] = item
	}
	return &Store{
		campaigns:   campaigns,
		media:       media,
		stateLog:    make([]entities.StateHistory, 0),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if filter.AdvertiserID != "" && campaign.AdvertiserID != filter.AdvertiserID {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) FindDueCampaigns(_ context.Context, today time.Time, limit int) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	items := make([]entities.Campaign, 0)
	for _, campaign := range s.campaigns {
		if _, due := campaign.DueTransition(today); due {
			items = append(items, campaign)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CampaignID < items[j].CampaignID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) FindArchivalBacklog(_ context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	pending := make(map[string]bool)
	for _, asset := range s.media {
		if asset.CampaignID == "" {
			continue
		}
		for _, status := range entities.ArchivableMediaStatuses() {
			if asset.Status == status {
				pending[asset.CampaignID] = true
				break
			}
		}
	}

	ids := make([]string, 0, len(pending))
	for campaignID := range pending {
		campaign, exists := s.campaigns[campaignID]
		if exists && campaign.Status == entities.CampaignStatusCompleted {
			ids = append(ids, campaignID)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *Store) CompareAndSetStatus(
	_ context.Context,
	campaignID string,
	expected entities.CampaignStatus,
	next entities.CampaignStatus,
	now time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return false, domainerrors.ErrCampaignNotFound
	}
	if campaign.Status != expected {
		return false, nil
	}

	campaign.Status = next
	campaign.UpdatedAt = now.UTC()
	switch next {
	case entities.CampaignStatusActive:
		if campaign.ActivatedAt == nil {
			timestamp := now.UTC()
			campaign.ActivatedAt = &timestamp
		}
	case entities.CampaignStatusCompleted:
		timestamp := now.UTC()
		campaign.CompletedAt = &timestamp
	}
	s.campaigns[campaign.CampaignID] = campaign
	return true, nil
}

func (s *Store) FlagForReview(_ context.Context, campaignID string, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	campaign.ReviewFlag = true
	campaign.ReviewReason = strings.TrimSpace(reason)
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) AppendState(_ context.Context, item entities.StateHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stateLog = append(s.stateLog, item)
	return nil
}

// StateLog exposes recorded transitions for tests.
func (s *Store) StateLog() []entities.StateHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.StateHistory(nil), s.stateLog...)
}

func (s *Store) AttachMedia(_ context.Context, media entities.MediaAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.media[media.MediaID]; exists {
		return domainerrors.ErrMediaAlreadyAttached
	}
	if media.CampaignID != "" {
		if _, exists := s.campaigns[media.CampaignID]; !exists {
			return domainerrors.ErrCampaignNotFound
		}
	}
	s.media[media.MediaID] = media
	return nil
}

func (s *Store) GetMedia(_ context.Context, mediaID string) (entities.MediaAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.media[strings.TrimSpace(mediaID)]
	if !exists {
		return entities.MediaAsset{}, domainerrors.ErrMediaNotFound
	}
	return item, nil
}

func (s *Store) ListMediaByCampaignAndStatus(
	_ context.Context,
	campaignID string,
	statuses []entities.MediaAssetStatus,
) ([]entities.MediaAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[entities.MediaAssetStatus]struct{}, len(statuses))
	for _, status := range statuses {
		wanted[status] = struct{}{}
	}

	items := make([]entities.MediaAsset, 0)
	for _, asset := range s.media {
		if asset.CampaignID != strings.TrimSpace(campaignID) {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[asset.Status]; !ok {
				continue
			}
		}
		items = append(items, asset)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].MediaID < items[j].MediaID
	})
	return items, nil
}

func (s *Store) CompareAndSetMediaStatus(
	_ context.Context,
	mediaID string,
	expected entities.MediaAssetStatus,
	next entities.MediaAssetStatus,
	now time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, exists := s.media[strings.TrimSpace(mediaID)]
	if !exists {
		return false, domainerrors.ErrMediaNotFound
	}
	if asset.Status != expected {
		return false, nil
	}
	asset.Status = next
	asset.UpdatedAt = now.UTC()
	s.media[asset.MediaID] = asset
	return true, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.idempotency[strings.TrimSpace(key)]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.UTC().After(record.ExpiresAt.UTC()) {
		delete(s.idempotency, strings.TrimSpace(key))
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.idempotency[record.Key]
	if exists && existing.RequestHash != record.RequestHash {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	s.idempotency[record.Key] = record
	return nil
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

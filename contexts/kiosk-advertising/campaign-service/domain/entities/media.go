package entities

import "time"

type MediaAssetStatus string

const (
	MediaAssetStatusPending  MediaAssetStatus = "pending"
	MediaAssetStatusApproved MediaAssetStatus = "approved"
	MediaAssetStatusRejected MediaAssetStatus = "rejected"
	MediaAssetStatusActive   MediaAssetStatus = "active"
	MediaAssetStatusArchived MediaAssetStatus = "archived"
)

// MediaAsset is a creative file that can be linked to a campaign. An asset
// may pre-exist unassigned; CampaignID stays empty until linked. Archival
// is one-way: only from approved or active, only when the owning campaign
// completes.
type MediaAsset struct {
	MediaID     string
	CampaignID  string
	FileName    string
	ContentType string
	// AssetPath is the backing file location in the object store; empty
	// when the asset has no backing file yet.
	AssetPath string
	Status    MediaAssetStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

var mediaTransitions = map[MediaAssetStatus][]MediaAssetStatus{
	MediaAssetStatusPending:  {MediaAssetStatusApproved, MediaAssetStatusRejected},
	MediaAssetStatusApproved: {MediaAssetStatusActive, MediaAssetStatusArchived},
	MediaAssetStatusActive:   {MediaAssetStatusArchived},
}

func CanTransitionMedia(from, to MediaAssetStatus) bool {
	for _, allowed := range mediaTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ArchivableMediaStatuses are the only states archival may start from.
func ArchivableMediaStatuses() []MediaAssetStatus {
	return []MediaAssetStatus{MediaAssetStatusActive, MediaAssetStatusApproved}
}

func IsSupportedMediaAssetStatus(value MediaAssetStatus) bool {
	switch value {
	case MediaAssetStatusPending, MediaAssetStatusApproved, MediaAssetStatusRejected,
		MediaAssetStatusActive, MediaAssetStatusArchived:
		return true
	default:
		return false
	}
}

package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
)

// Local archives media files on the node's filesystem by moving them
// under ArchiveRoot. An asset with no backing file is a no-op success:
// there is nothing to move and the status change is still correct.
type Local struct {
	ArchiveRoot string
	Logger      *slog.Logger
}

func NewLocal(archiveRoot string, logger *slog.Logger) *Local {
	return &Local{
		ArchiveRoot: archiveRoot,
		Logger:      logger,
	}
}

func (l *Local) Relocate(ctx context.Context, asset entities.MediaAsset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	source := strings.TrimSpace(asset.AssetPath)
	if source == "" {
		return nil
	}
	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat media file: %w", err)
	}

	target := filepath.Join(l.ArchiveRoot, asset.CampaignID, filepath.Base(source))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("prepare archive dir: %w", err)
	}
	if err := os.Rename(source, target); err != nil {
		return fmt.Errorf("relocate media file: %w", err)
	}

	if l.Logger != nil {
		l.Logger.Info("media file relocated",
			"event", "media_file_relocated",
			"module", "internal/platform/objectstore",
			"layer", "platform",
			"media_id", asset.MediaID,
			"target", target,
		)
	}
	return nil
}

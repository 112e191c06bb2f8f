package kvstore

import (
	"context"
	"fmt"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/config"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// NewStoreFromConfig creates a KeyValue implementation based on the backups
// config type.
func NewStoreFromConfig(ctx context.Context, cfg config.BackupsConfig) (organizer.KeyValue, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem", "":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem store requires dir to be set")
		}
		return NewFileStore(cfg.Dir)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backups store type: %s", cfg.Type)
	}
}

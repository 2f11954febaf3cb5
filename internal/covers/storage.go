package covers

import (
	"context"
	"fmt"

	"github.com/mrlokans/bookshelf/internal/config"
)

// Storage persists a processed cover and returns the URL it is served from.
type Storage interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// NewStorage builds the backend selected by UPLOAD_DRIVER.
func NewStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Uploads.Driver {
	case config.UploadDriverLocal, "":
		return NewLocalStorage(cfg.Uploads.Dir)
	case config.UploadDriverMinIO:
		return NewMinIOStorage(ctx, cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported upload driver %q", cfg.Uploads.Driver)
	}
}

package storage

import (
	"context"
	"fmt"

	"github.com/anonto42/campus-diary/backend/pkg/config"
)

// MediaHost stores a local file somewhere public and returns its URL.
type MediaHost interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Name() string
}

// NewMediaHost picks the provider named in cfg. Firebase needs an
// initialised bucket, so it is passed in by the caller.
func NewMediaHost(cfg config.MediaConfig, firebaseBucket BucketWriter) (MediaHost, error) {
	switch cfg.Provider {
	case "", "cloudinary":
		return NewCloudinaryStorage(cfg)
	case "firebase":
		if firebaseBucket == nil {
			return nil, fmt.Errorf("firebase media provider selected but no bucket configured")
		}
		return NewFirebaseStorage(firebaseBucket, cfg.FirebaseBucket), nil
	default:
		return nil, fmt.Errorf("unknown MEDIA_PROVIDER %q", cfg.Provider)
	}
}

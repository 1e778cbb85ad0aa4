package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/anonto42/campus-diary/backend/pkg/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage builds a client from explicit credentials, falling
// back to CLOUDINARY_URL.
func NewCloudinaryStorage(cfg config.MediaConfig) (MediaHost, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case cfg.CloudinaryURL != "":
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
	default:
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld, folder: cfg.CloudinaryFolder}, nil
}

func (s *cloudinaryStorage) Name() string { return "cloudinary" }

// Upload sends the file with automatic resource type detection and
// returns the secure URL.
func (s *cloudinaryStorage) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", fmt.Errorf("no file to upload")
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	resp, err := s.cld.Upload.Upload(ctx, f, uploader.UploadParams{
		Folder:         s.folder,
		ResourceType:   "auto",
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

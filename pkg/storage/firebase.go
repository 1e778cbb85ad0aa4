package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// BucketWriter is the part of a Cloud Storage bucket the uploader needs.
type BucketWriter interface {
	Object(name string) *gcs.ObjectHandle
}

type firebaseStorage struct {
	bucket     BucketWriter
	bucketName string
	prefix     string
}

// NewFirebaseStorage uploads to the Firebase project's Cloud Storage bucket.
func NewFirebaseStorage(bucket BucketWriter, bucketName string) MediaHost {
	return &firebaseStorage{bucket: bucket, bucketName: bucketName, prefix: "developers"}
}

func (s *firebaseStorage) Name() string { return "firebase" }

func (s *firebaseStorage) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", fmt.Errorf("no file to upload")
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	objectName := path.Join(s.prefix, uuid.NewString()+ext)

	w := s.bucket.Object(objectName).NewWriter(ctx)
	if ct := mime.TypeByExtension(ext); ct != "" {
		w.ContentType = ct
	}
	w.PredefinedACL = "publicRead"

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write to firebase storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize firebase upload: %w", err)
	}

	return publicObjectURL(s.bucketName, objectName), nil
}

func publicObjectURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, (&url.URL{Path: object}).EscapedPath())
}

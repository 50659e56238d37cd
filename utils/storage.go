package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
)

const (
	StorageProviderGCS   = "gcs"
	StorageProviderLocal = "local"
)

// StorageProvider resolves stored references (letterhead images, signature
// attachments) into raw bytes for embedding in rendered reports.
type StorageProvider interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

func GetStorageProviderName() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderGCS
	}
	return provider
}

func GetStorageProvider() (StorageProvider, error) {
	switch GetStorageProviderName() {
	case StorageProviderGCS:
		return &GCSStorageProvider{Bucket: os.Getenv("ATTACHMENT_BUCKET")}, nil
	case StorageProviderLocal:
		return &LocalStorageProvider{BaseDir: os.Getenv("ATTACHMENT_DIR")}, nil
	}
	return nil, fmt.Errorf("unsupported storage provider %q", GetStorageProviderName())
}

type GCSStorageProvider struct {
	Bucket string
}

func (p *GCSStorageProvider) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if p.Bucket == "" {
		return nil, errors.New("ATTACHMENT_BUCKET is not set")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	reader, err := client.Bucket(p.Bucket).Object(ref).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

type LocalStorageProvider struct {
	BaseDir string
}

func (p *LocalStorageProvider) Fetch(ctx context.Context, ref string) ([]byte, error) {
	base := p.BaseDir
	if base == "" {
		base = "uploads"
	}
	full := filepath.Join(base, filepath.Clean("/"+ref))
	if !strings.HasPrefix(full, filepath.Clean(base)+string(os.PathSeparator)) {
		return nil, fmt.Errorf("reference %q escapes the storage directory", ref)
	}
	return os.ReadFile(full)
}

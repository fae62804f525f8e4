package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	s3 "github.com/terrycain/station-tv-server/pkg/storage/aws-s3"
	"github.com/terrycain/station-tv-server/pkg/storage/azureblob"
	"github.com/terrycain/station-tv-server/pkg/storage/disk"

	"github.com/terrycain/station-tv-server/pkg/s"
)

//go:generate mockgen -destination=../mocks/mock_storage.go -package=mocks -mock_names=Backend=MockStorageBackend github.com/terrycain/station-tv-server/pkg/storage Backend

// Backend is durable blob storage for uploaded media. Blobs are write-once.
type Backend interface {
	Setup() error
	Type() string
	Write(ctx context.Context, name string, r io.Reader) (int64, error)
	Delete(ctx context.Context, name string) error
	Stat(ctx context.Context, name string) (s.BlobInfo, error)
	// Open returns length bytes starting at offset, length < 0 reads to the end.
	Open(ctx context.Context, name string, offset, length int64) (io.ReadCloser, error)
}

func GetStorageBackend(backend, connectionString string) (Backend, error) {
	var b Backend
	var err error

	switch backend {
	case "disk":
		b, err = disk.New(connectionString)
	case "s3":
		b, err = s3.New(connectionString)
	case "azureblob":
		b, err = azureblob.New(connectionString)
	default:
		return nil, errors.New("invalid storage backend")
	}

	if err != nil {
		return nil, err
	}

	if err := b.Setup(); err != nil {
		return nil, err
	}

	return b, nil
}

// NewBlobName generates a collision resistant name keeping the lowercased upload extension.
func NewBlobName(originalName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
}

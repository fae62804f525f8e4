package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
)

type Backend struct {
	BaseDir string
}

type fileSection struct {
	io.Reader
	io.Closer
}

func New(connectionString string) (*Backend, error) {
	if _, err := os.Stat(connectionString); os.IsNotExist(err) {
		return nil, errors.New("path does not exist")
	}

	// Enable uuid rand pool for better performance
	uuid.EnableRandPool()

	backend := Backend{BaseDir: filepath.Clean(connectionString)}
	return &backend, nil
}

func (b *Backend) Setup() error {
	return nil
}

func (b *Backend) Type() string {
	return "disk"
}

func (b *Backend) Write(_ context.Context, name string, r io.Reader) (int64, error) {
	filePath, err := b.filePath(name)
	if err != nil {
		return 0, err
	}

	fp, err := os.OpenFile(filePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, e.ErrAlreadyExists
		}
		return 0, err
	}

	writtenBytes, err := io.Copy(fp, r)
	if closeErr := fp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(filePath)
		return 0, err
	}

	return writtenBytes, nil
}

func (b *Backend) Delete(_ context.Context, name string) error {
	filePath, err := b.filePath(name)
	if err != nil {
		return err
	}

	if err = os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (b *Backend) Stat(_ context.Context, name string) (s.BlobInfo, error) {
	filePath, err := b.filePath(name)
	if err != nil {
		return s.BlobInfo{}, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return s.BlobInfo{}, e.ErrNotFound
		}
		return s.BlobInfo{}, err
	}
	if info.IsDir() {
		return s.BlobInfo{}, e.ErrNotFound
	}

	return s.BlobInfo{Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (b *Backend) Open(_ context.Context, name string, offset, length int64) (io.ReadCloser, error) {
	filePath, err := b.filePath(name)
	if err != nil {
		return nil, err
	}

	fp, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, e.ErrNotFound
		}
		return nil, err
	}

	if offset > 0 {
		if _, err = fp.Seek(offset, io.SeekStart); err != nil {
			_ = fp.Close()
			return nil, fmt.Errorf("seek %s: %w", name, err)
		}
	}

	if length < 0 {
		return fp, nil
	}
	return fileSection{Reader: io.LimitReader(fp, length), Closer: fp}, nil
}

// filePath keeps lookups inside BaseDir, anything escaping it is reported as missing.
func (b *Backend) filePath(name string) (string, error) {
	if name == "" {
		return "", e.ErrNotFound
	}
	filePath := filepath.Clean(filepath.Join(b.BaseDir, name))
	if !strings.HasPrefix(filePath, b.BaseDir+string(filepath.Separator)) {
		return "", e.ErrNotFound
	}

	return filePath, nil
}

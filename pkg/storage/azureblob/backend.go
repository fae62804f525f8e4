package azureblob

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/utils"
)

const blockSize = 8 * 1024 * 1024

type Backend struct {
	Client    azblob.ContainerClient
	container string
}

type blockReader struct {
	*bytes.Reader
}

func (blockReader) Close() error { return nil }

func ParsePartsFromConnectionString(connStr string) (string, string, string, bool) {
	container := ""
	account := ""
	key := ""

	parts := strings.Split(connStr, ";")
	for _, part := range parts {
		if part == "" {
			continue
		}
		subParts := strings.SplitN(part, "=", 2)
		if len(subParts) < 2 {
			return "", "", "", false
		}

		switch subParts[0] {
		case "Container":
			container = subParts[1]
		case "AccountName":
			account = subParts[1]
		case "AccountKey":
			key = subParts[1]
		}
	}

	if container == "" || account == "" || key == "" {
		return "", "", "", false
	}

	return account, key, container, true
}

func New(connectionString string) (*Backend, error) {
	_, _, container, found := ParsePartsFromConnectionString(connectionString)
	if !found {
		return &Backend{}, errors.New("container, account name or account key missing from connection string")
	}

	client, err := azblob.NewContainerClientFromConnectionString(connectionString, container, &azblob.ClientOptions{})
	if err != nil {
		return &Backend{}, err
	}

	// Enable uuid rand pool for better performance
	uuid.EnableRandPool()

	backend := Backend{
		container: container,
		Client:    client,
	}
	return &backend, nil
}

func (b *Backend) Setup() error {
	return nil
}

func (b *Backend) Type() string {
	return "azureblob"
}

// Write stages the upload as fixed size blocks and commits them in order.
func (b *Backend) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	blobClient := b.Client.NewBlockBlobClient(name)

	blockIDList := make([]string, 0)
	buf := make([]byte, blockSize)
	var total int64

	for {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			// Block ids must all be the same length
			blockID := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%060d", len(blockIDList))))
			chunk := blockReader{bytes.NewReader(append([]byte(nil), buf[:n]...))}
			if _, err := blobClient.StageBlock(ctx, blockID, chunk, &azblob.StageBlockOptions{}); err != nil {
				return 0, err
			}
			blockIDList = append(blockIDList, blockID)
			total += int64(n)
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			return 0, readErr
		}
	}

	contentType := utils.MimeType(name)
	_, err := blobClient.CommitBlockList(ctx, blockIDList, &azblob.CommitBlockListOptions{
		BlobHTTPHeaders: &azblob.BlobHTTPHeaders{BlobContentType: &contentType},
		Metadata: map[string]string{
			"ownedBy": "station-tv-server",
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("blob", name).Msg("Failed to commit block list")
		_, _ = blobClient.Delete(ctx, &azblob.DeleteBlobOptions{})
		return 0, err
	}

	return total, nil
}

func (b *Backend) Delete(ctx context.Context, name string) error {
	blobClient := b.Client.NewBlockBlobClient(name)
	if _, err := blobClient.Delete(ctx, &azblob.DeleteBlobOptions{}); err != nil && !errors.Is(mapError(err), e.ErrNotFound) {
		return err
	}
	return nil
}

func (b *Backend) Stat(ctx context.Context, name string) (s.BlobInfo, error) {
	blobClient := b.Client.NewBlockBlobClient(name)
	props, err := blobClient.GetProperties(ctx, &azblob.GetBlobPropertiesOptions{})
	if err != nil {
		return s.BlobInfo{}, mapError(err)
	}

	info := s.BlobInfo{Name: name}
	if props.ContentLength != nil {
		info.Size = *props.ContentLength
	}
	if props.LastModified != nil {
		info.ModTime = *props.LastModified
	}
	return info, nil
}

func (b *Backend) Open(ctx context.Context, name string, offset, length int64) (io.ReadCloser, error) {
	if length == 0 {
		return io.NopCloser(strings.NewReader("")), nil
	}

	options := &azblob.DownloadBlobOptions{Offset: &offset}
	if length > 0 {
		options.Count = &length
	}

	blobClient := b.Client.NewBlockBlobClient(name)
	resp, err := blobClient.Download(ctx, options)
	if err != nil {
		return nil, mapError(err)
	}

	return resp.Body(azblob.RetryReaderOptions{MaxRetryRequests: 3}), nil
}

func mapError(err error) error {
	var statusErr interface{ StatusCode() int }
	if errors.As(err, &statusErr) && statusErr.StatusCode() == 404 {
		return e.ErrNotFound
	}
	if strings.Contains(err.Error(), string(azblob.StorageErrorCodeBlobNotFound)) {
		return e.ErrNotFound
	}
	return err
}

// Package cachestore holds named, versioned partitions of cached HTTP responses on the player device.
package cachestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/metrics"
	"github.com/terrycain/station-tv-server/pkg/s"
)

// Partition is one named bucket of responses keyed by request URL.
type Partition interface {
	Name() string
	// Match returns e.ErrCacheMiss when nothing is stored for key.
	Match(ctx context.Context, key string, opts s.MatchOptions) (s.CacheEntry, error)
	Put(ctx context.Context, key string, entry s.CacheEntry) error
}

type Store interface {
	Type() string
	Open(ctx context.Context, name string) (Partition, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	// Preferences live outside any partition and survive activation.
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
	Close() error
}

// Activate deletes every partition not named in current. Delete failures are logged and skipped.
func Activate(ctx context.Context, store Store, current []string) error {
	names, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}

	keep := make(map[string]struct{}, len(current))
	for _, name := range current {
		keep[name] = struct{}{}
	}

	for _, name := range names {
		if _, ok := keep[name]; ok {
			continue
		}
		if err = store.Delete(ctx, name); err != nil {
			log.Warn().Err(err).Str("partition", name).Msg("Failed to delete stale cache partition")
			continue
		}
		metrics.CachePartitionDeleted()
		log.Info().Str("partition", name).Msg("Deleted stale cache partition")
	}
	return nil
}

// NewEntry buffers resp into an entry and rewinds resp.Body so the caller can still read it.
func NewEntry(resp *http.Response) (s.CacheEntry, error) {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return s.CacheEntry{}, fmt.Errorf("read response body: %w", err)
	}

	header := resp.Header.Clone()
	for _, hop := range []string{"Connection", "Keep-Alive", "Transfer-Encoding", "Set-Cookie"} {
		header.Del(hop)
	}
	return s.CacheEntry{
		Status:   resp.StatusCode,
		Header:   header,
		Body:     body,
		StoredAt: time.Now().UTC(),
	}, nil
}

// Package cached puts a Redis read-through cache in front of a metadata backend.
// Reads used by every display poll are cached, writes invalidate the affected keys.
package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/database"
	"github.com/terrycain/station-tv-server/pkg/s"
)

const (
	ttlTV      = 5 * time.Minute
	ttlTVMedia = 30 * time.Second
	ttlMedia   = 1 * time.Minute
)

type Backend struct {
	database.Backend
	client *redis.Client
	prefix string
}

// New parses a Redis URL (e.g. "redis://host:6379/0") and wraps inner.
func New(inner database.Backend, rawURL string) (*Backend, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err = client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(inner, client, "stationtv"), nil
}

func NewWithClient(inner database.Backend, client *redis.Client, prefix string) *Backend {
	return &Backend{Backend: inner, client: client, prefix: prefix}
}

func (b *Backend) Type() string { return b.Backend.Type() + "+redis" }

func (b *Backend) key(format string, args ...interface{}) string {
	return b.prefix + ":" + fmt.Sprintf(format, args...)
}

func getJSON[T any](ctx context.Context, b *Backend, key string) (T, error) {
	var v T
	raw, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		return v, err
	}
	if err = json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return v, nil
}

func (b *Backend) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err == nil {
		err = b.client.Set(ctx, key, data, ttl).Err()
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to set metadata cache entry")
	}
}

func (b *Backend) invalidate(ctx context.Context, patterns ...string) {
	for _, pattern := range patterns {
		var cursor uint64
		for {
			keys, next, err := b.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				log.Warn().Err(err).Str("pattern", pattern).Msg("Failed to scan metadata cache")
				break
			}
			if len(keys) > 0 {
				if err = b.client.Del(ctx, keys...).Err(); err != nil {
					log.Warn().Err(err).Str("pattern", pattern).Msg("Failed to invalidate metadata cache")
				}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}
}

func (b *Backend) GetTV(ctx context.Context, id int64) (s.TV, error) {
	key := b.key("tv:%d", id)
	if v, err := getJSON[s.TV](ctx, b, key); err == nil {
		return v, nil
	}
	tv, err := b.Backend.GetTV(ctx, id)
	if err != nil {
		return s.TV{}, err
	}
	b.setJSON(ctx, key, tv, ttlTV)
	return tv, nil
}

func (b *Backend) ListMedia(ctx context.Context) ([]s.MediaAsset, error) {
	key := b.key("media:all")
	if v, err := getJSON[[]s.MediaAsset](ctx, b, key); err == nil {
		return v, nil
	}
	media, err := b.Backend.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	b.setJSON(ctx, key, media, ttlMedia)
	return media, nil
}

func (b *Backend) GetTVMedia(ctx context.Context, tvID int64) (s.TVMedia, error) {
	key := b.key("tvmedia:%d", tvID)
	if v, err := getJSON[s.TVMedia](ctx, b, key); err == nil {
		return v, nil
	}
	result, err := b.Backend.GetTVMedia(ctx, tvID)
	if err != nil {
		return s.TVMedia{}, err
	}
	b.setJSON(ctx, key, result, ttlTVMedia)
	return result, nil
}

// --- writes, invalidating ---

func (b *Backend) DeleteStation(ctx context.Context, id int64) error {
	err := b.Backend.DeleteStation(ctx, id)
	b.invalidate(ctx, b.key("tv:*"), b.key("tvmedia:*"))
	return err
}

func (b *Backend) UpdateTV(ctx context.Context, tv s.TV) error {
	err := b.Backend.UpdateTV(ctx, tv)
	b.invalidate(ctx, b.key("tv:%d", tv.ID), b.key("tvmedia:%d", tv.ID))
	return err
}

func (b *Backend) SetTransitionTime(ctx context.Context, tvID int64, ms int) error {
	err := b.Backend.SetTransitionTime(ctx, tvID, ms)
	b.invalidate(ctx, b.key("tv:%d", tvID))
	return err
}

func (b *Backend) DeleteTV(ctx context.Context, id int64) error {
	err := b.Backend.DeleteTV(ctx, id)
	b.invalidate(ctx, b.key("tv:%d", id), b.key("tvmedia:%d", id))
	return err
}

func (b *Backend) CreateMedia(ctx context.Context, m s.MediaAsset) (s.MediaAsset, error) {
	created, err := b.Backend.CreateMedia(ctx, m)
	b.invalidate(ctx, b.key("media:all"), b.key("tvmedia:*"))
	return created, err
}

func (b *Backend) DeleteMedia(ctx context.Context, id int64) (s.MediaAsset, error) {
	deleted, err := b.Backend.DeleteMedia(ctx, id)
	b.invalidate(ctx, b.key("media:all"), b.key("tvmedia:*"))
	return deleted, err
}

func (b *Backend) ReplaceAssignments(ctx context.Context, tvID int64, mediaIDs []int64) error {
	err := b.Backend.ReplaceAssignments(ctx, tvID, mediaIDs)
	b.invalidate(ctx, b.key("tvmedia:%d", tvID))
	return err
}

func (b *Backend) SetAssignmentActive(ctx context.Context, tvID, mediaID int64, active bool) error {
	err := b.Backend.SetAssignmentActive(ctx, tvID, mediaID, active)
	b.invalidate(ctx, b.key("tvmedia:%d", tvID))
	return err
}

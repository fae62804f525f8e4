// Package redis stores each cache partition as a hash, so several players can share one warm cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/terrycain/station-tv-server/pkg/cachestore"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
)

type Store struct {
	client *redis.Client
	prefix string
}

// New parses a Redis URL (e.g. "redis://host:6379/0") and checks the server answers.
func New(rawURL, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err = client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(client, prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (r *Store) Type() string { return "redis" }

func (r *Store) Close() error { return r.client.Close() }

func (r *Store) indexKey() string             { return r.prefix + ":partitions" }
func (r *Store) deviceKey() string            { return r.prefix + ":device" }
func (r *Store) partitionKey(n string) string { return r.prefix + ":p:" + n }

func (r *Store) Open(ctx context.Context, name string) (cachestore.Partition, error) {
	if err := r.client.SAdd(ctx, r.indexKey(), name).Err(); err != nil {
		return nil, fmt.Errorf("open partition %s: %w", name, err)
	}
	return &Partition{client: r.client, name: name, key: r.partitionKey(name)}, nil
}

func (r *Store) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Store) Delete(ctx context.Context, name string) error {
	removed, err := r.client.SRem(ctx, r.indexKey(), name).Result()
	if err != nil {
		return fmt.Errorf("delete partition %s: %w", name, err)
	}
	if err = r.client.Del(ctx, r.partitionKey(name)).Err(); err != nil {
		return fmt.Errorf("delete partition %s: %w", name, err)
	}
	if removed == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Store) GetPreference(ctx context.Context, key string) (string, error) {
	value, err := r.client.HGet(ctx, r.deviceKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", e.ErrNotFound
	}
	return value, err
}

func (r *Store) SetPreference(ctx context.Context, key, value string) error {
	return r.client.HSet(ctx, r.deviceKey(), key, value).Err()
}

type Partition struct {
	client *redis.Client
	name   string
	key    string
}

func (p *Partition) Name() string { return p.name }

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func (p *Partition) Match(ctx context.Context, key string, opts s.MatchOptions) (s.CacheEntry, error) {
	raw, err := p.client.HGet(ctx, p.key, key).Bytes()
	if errors.Is(err, redis.Nil) && opts.IgnoreQuery {
		raw, err = p.scanIgnoringQuery(ctx, key)
	}
	if errors.Is(err, redis.Nil) {
		return s.CacheEntry{}, e.ErrCacheMiss
	}
	if err != nil {
		return s.CacheEntry{}, err
	}

	var entry s.CacheEntry
	if err = json.Unmarshal(raw, &entry); err != nil {
		return s.CacheEntry{}, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return entry, nil
}

func (p *Partition) scanIgnoringQuery(ctx context.Context, key string) ([]byte, error) {
	want := s.StripQuery(key)
	pattern := globEscaper.Replace(want) + "*"

	var cursor uint64
	for {
		// HSCAN replies field, value, field, value...
		pairs, next, err := p.client.HScan(ctx, p.key, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(pairs); i += 2 {
			if s.StripQuery(pairs[i]) == want {
				return []byte(pairs[i+1]), nil
			}
		}
		cursor = next
		if cursor == 0 {
			return nil, redis.Nil
		}
	}
}

func (p *Partition) Put(ctx context.Context, key string, entry s.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return p.client.HSet(ctx, p.key, key, data).Err()
}

// Package bolt keeps cache partitions as nested buckets of a single bbolt file on the device.
package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/terrycain/station-tv-server/pkg/cachestore"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketPartitions = []byte("partitions")
	bucketDevice     = []byte("device")
)

type Store struct {
	db *bolt.DB
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("bolt cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPartitions, bucketDevice} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (b *Store) Type() string { return "bolt" }

func (b *Store) Close() error {
	return b.db.Close()
}

func (b *Store) Open(_ context.Context, name string) (cachestore.Partition, error) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.Bucket(bucketPartitions).CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("open partition %s: %w", name, err)
	}
	return &Partition{db: b.db, name: name}, nil
}

func (b *Store) List(_ context.Context) ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPartitions).ForEachBucket(func(k []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (b *Store) Delete(_ context.Context, name string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPartitions).DeleteBucket([]byte(name))
	})
	if errors.Is(err, bolt.ErrBucketNotFound) {
		return e.ErrNotFound
	}
	return err
}

func (b *Store) GetPreference(_ context.Context, key string) (string, error) {
	var value []byte
	b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketDevice).Get([]byte(key)); v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	if value == nil {
		return "", e.ErrNotFound
	}
	return string(value), nil
}

func (b *Store) SetPreference(_ context.Context, key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDevice).Put([]byte(key), []byte(value))
	})
}

type Partition struct {
	db   *bolt.DB
	name string
}

func (p *Partition) Name() string { return p.name }

func (p *Partition) Match(_ context.Context, key string, opts s.MatchOptions) (s.CacheEntry, error) {
	var data []byte
	err := p.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketPartitions).Bucket([]byte(p.name))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
			return nil
		}
		if !opts.IgnoreQuery {
			return nil
		}

		// Keys are sorted, every query variant of a URL sits right after its bare prefix
		want := s.StripQuery(key)
		c := bucket.Cursor()
		for k, v := c.Seek([]byte(want)); k != nil && bytes.HasPrefix(k, []byte(want)); k, v = c.Next() {
			if s.StripQuery(string(k)) == want {
				data = append([]byte(nil), v...)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return s.CacheEntry{}, err
	}
	if data == nil {
		return s.CacheEntry{}, e.ErrCacheMiss
	}

	var entry s.CacheEntry
	if err = json.Unmarshal(data, &entry); err != nil {
		return s.CacheEntry{}, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return entry, nil
}

func (p *Partition) Put(_ context.Context, key string, entry s.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return p.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.Bucket(bucketPartitions).CreateBucketIfNotExists([]byte(p.name))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), data)
	})
}

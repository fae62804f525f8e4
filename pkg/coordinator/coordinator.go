// Package coordinator decides, per outgoing request from the player, whether to answer from the
// device cache or the network. It is an http.RoundTripper so it can sit under any client or proxy.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/cachestore"
	"github.com/terrycain/station-tv-server/pkg/cachestore/memory"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/metrics"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/utils"
	"golang.org/x/sync/singleflight"
)

const (
	routePassthrough = "passthrough"
	routeNavigation  = "navigation"
	routeStatic      = "static"
	routeVideoRange  = "video-range"
	routeMedia       = "media"
)

var (
	mediaPrefixes = []string{"/media/", "/uploads/"}
	adminPrefixes = []string{"/admin/", "/metadata/"}
	displayPrefix = "/tv/"

	staticAssetRegex = regexp.MustCompile(`(?i)\.(css|m?js|map|woff2?|ttf|ico|svg|png|jpe?g|gif|webp)$`)
)

// Partitions are the persistent partition names for one deployed cache version.
type Partitions struct {
	Shell  string
	Static string
	Media  string
}

func PartitionsFor(version string) Partitions {
	return Partitions{
		Shell:  "tv-shell-" + version,
		Static: "tv-static-" + version,
		Media:  "tv-media-" + version,
	}
}

func (p Partitions) Names() []string {
	return []string{p.Shell, p.Static, p.Media}
}

type Options struct {
	// Origin is the station-tv-server base URL, used for precache fetches.
	Origin   *url.URL
	Version  string
	Precache PrecachePolicy
	// Next performs real network requests, http.DefaultTransport when nil.
	Next http.RoundTripper
}

type Coordinator struct {
	next     http.RoundTripper
	origin   *url.URL
	policy   PrecachePolicy
	names    Partitions
	shell    cachestore.Partition
	static   cachestore.Partition
	media    cachestore.Partition
	video    cachestore.Partition
	fills    singleflight.Group
	inFlight sync.WaitGroup
}

// New activates the store for opts.Version, removing partitions of any other version, then opens
// the current partitions. Activation failures are logged, the coordinator still serves.
func New(ctx context.Context, store cachestore.Store, opts Options) (*Coordinator, error) {
	if opts.Origin == nil {
		return nil, errors.New("coordinator needs an origin url")
	}
	if opts.Version == "" {
		opts.Version = "v1"
	}
	if opts.Next == nil {
		opts.Next = http.DefaultTransport
	}
	if opts.Precache == "" {
		opts.Precache = PrecacheImages
	}

	names := PartitionsFor(opts.Version)
	if err := cachestore.Activate(ctx, store, names.Names()); err != nil {
		log.Error().Err(err).Str("version", opts.Version).Msg("Cache activation failed, continuing with existing partitions")
	}

	c := &Coordinator{
		next:   opts.Next,
		origin: opts.Origin,
		policy: opts.Precache,
		names:  names,
	}

	var err error
	if c.shell, err = store.Open(ctx, names.Shell); err != nil {
		return nil, err
	}
	if c.static, err = store.Open(ctx, names.Static); err != nil {
		return nil, err
	}
	if c.media, err = store.Open(ctx, names.Media); err != nil {
		return nil, err
	}
	// Full video objects only live for the life of the process
	if c.video, err = memory.New().Open(ctx, "tv-video-"+opts.Version); err != nil {
		return nil, err
	}

	log.Info().Str("store", store.Type()).Strs("partitions", names.Names()).Msg("Cache coordinator active")
	return c, nil
}

// Wait blocks until background cache fills, revalidations and precache runs have finished.
func (c *Coordinator) Wait() {
	c.inFlight.Wait()
}

func (c *Coordinator) background(fn func()) {
	c.inFlight.Add(1)
	go func() {
		defer c.inFlight.Done()
		fn()
	}()
}

func hasPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func isNavigation(req *http.Request) bool {
	return req.Header.Get("Sec-Fetch-Mode") == "navigate"
}

func cacheKey(req *http.Request) string {
	return s.StripQuery(req.URL.String())
}

func (c *Coordinator) RoundTrip(req *http.Request) (*http.Response, error) {
	p := req.URL.Path

	switch {
	case req.Method != http.MethodGet, hasPrefix(p, adminPrefixes):
		return c.passthrough(req)
	case !hasPrefix(p, mediaPrefixes):
		if strings.HasPrefix(p, displayPrefix) && isNavigation(req) {
			return c.networkFirst(req)
		}
		if staticAssetRegex.MatchString(p) {
			return c.staleWhileRevalidate(req)
		}
		return c.passthrough(req)
	}

	kind := utils.KindFromPath(p)
	switch {
	case kind == s.KindVideo && req.Header.Get("Range") != "":
		return c.videoRange(req)
	case kind == s.KindImage:
		return c.cacheFirst(req, c.media)
	case kind == s.KindVideo:
		return c.cacheFirst(req, c.video)
	default:
		return c.passthrough(req)
	}
}

func (c *Coordinator) passthrough(req *http.Request) (*http.Response, error) {
	resp, err := c.next.RoundTrip(req)
	if err != nil {
		metrics.CoordinatorRequest(routePassthrough, "error")
		return nil, err
	}
	metrics.CoordinatorRequest(routePassthrough, "network")
	return resp, nil
}

// store buffers resp and writes it to partition. Write failures are logged, never returned.
func (c *Coordinator) store(ctx context.Context, partition cachestore.Partition, key string, resp *http.Response) {
	if !cacheable(resp) {
		return
	}
	entry, err := cachestore.NewEntry(resp)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to buffer response for caching")
		return
	}
	if err = partition.Put(ctx, key, entry); err != nil {
		log.Warn().Err(fmt.Errorf("%w: %v", e.ErrCacheWrite, err)).Str("partition", partition.Name()).Str("key", key).Msg("Failed to cache response")
	}
}

// cacheFirst answers from partition when it can, otherwise fetches and stores a successful reply.
func (c *Coordinator) cacheFirst(req *http.Request, partition cachestore.Partition) (*http.Response, error) {
	ctx := req.Context()
	key := cacheKey(req)

	if entry, err := partition.Match(ctx, key, s.MatchOptions{IgnoreQuery: true}); err == nil {
		metrics.CoordinatorRequest(routeMedia, "hit")
		return entry.Response(req), nil
	} else if !errors.Is(err, e.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
	}

	resp, err := c.next.RoundTrip(req)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Media fetch failed with nothing cached")
		metrics.CoordinatorRequest(routeMedia, "offline")
		return unavailable(req), nil
	}

	c.store(ctx, partition, key, resp)
	metrics.CoordinatorRequest(routeMedia, "network")
	return resp, nil
}

// videoRange slices a cached full object when there is one. Otherwise the ranged request goes to the
// network as is, while the full object is fetched in the background for next time.
func (c *Coordinator) videoRange(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	key := cacheKey(req)

	entry, err := c.video.Match(ctx, key, s.MatchOptions{IgnoreQuery: true})
	if err == nil {
		resp := synthesizeRange(req, entry)
		metrics.CoordinatorRequest(routeVideoRange, "hit")
		return resp, nil
	}

	c.fillVideo(req)

	resp, err := c.next.RoundTrip(req)
	if err != nil {
		metrics.CoordinatorRequest(routeVideoRange, "offline")
		return unavailable(req), nil
	}
	metrics.CoordinatorRequest(routeVideoRange, "network")
	return resp, nil
}

// fillVideo fetches the unranged object once per key, however many range requests miss concurrently.
func (c *Coordinator) fillVideo(req *http.Request) {
	key := cacheKey(req)
	full := req.Clone(context.WithoutCancel(req.Context()))
	full.Header.Del("Range")
	full.Header.Del("If-Range")

	c.background(func() {
		_, _, _ = c.fills.Do(key, func() (interface{}, error) {
			if _, err := c.video.Match(full.Context(), key, s.MatchOptions{IgnoreQuery: true}); err == nil {
				return nil, nil
			}
			resp, err := c.next.RoundTrip(full)
			if err != nil {
				log.Debug().Err(err).Str("key", key).Msg("Background video fetch failed")
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				log.Debug().Int("status", resp.StatusCode).Str("key", key).Msg("Background video fetch was not a full object")
				return nil, nil
			}
			c.store(full.Context(), c.video, key, resp)
			log.Debug().Str("key", key).Msg("Cached full video object")
			return nil, nil
		})
	})
}

// networkFirst serves display navigations, falling back to the last good copy then a placeholder.
func (c *Coordinator) networkFirst(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	key := cacheKey(req)

	resp, err := c.next.RoundTrip(req)
	if err == nil {
		c.store(ctx, c.shell, key, resp)
		metrics.CoordinatorRequest(routeNavigation, "network")
		return resp, nil
	}

	log.Warn().Err(err).Str("key", key).Msg("Display load failed, trying cached copy")
	if entry, matchErr := c.shell.Match(ctx, key, s.MatchOptions{IgnoreQuery: true}); matchErr == nil {
		metrics.CoordinatorRequest(routeNavigation, "hit")
		return entry.Response(req), nil
	}
	metrics.CoordinatorRequest(routeNavigation, "offline")
	return offlinePage(req), nil
}

// staleWhileRevalidate answers from cache straight away and refreshes in the background. A failed
// refresh keeps the stale copy.
func (c *Coordinator) staleWhileRevalidate(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	key := cacheKey(req)

	entry, err := c.static.Match(ctx, key, s.MatchOptions{IgnoreQuery: true})
	if err != nil {
		resp, err := c.next.RoundTrip(req)
		if err != nil {
			metrics.CoordinatorRequest(routeStatic, "offline")
			return unavailable(req), nil
		}
		c.store(ctx, c.static, key, resp)
		metrics.CoordinatorRequest(routeStatic, "network")
		return resp, nil
	}

	refresh := req.Clone(context.WithoutCancel(ctx))
	c.background(func() {
		resp, err := c.next.RoundTrip(refresh)
		if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("Static revalidation failed, keeping stale copy")
			return
		}
		defer resp.Body.Close()
		c.store(refresh.Context(), c.static, key, resp)
	})

	metrics.CoordinatorRequest(routeStatic, "hit")
	return entry.Response(req), nil
}

package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/metrics"
	"github.com/terrycain/station-tv-server/pkg/s"
	"golang.org/x/sync/errgroup"
)

type MessageType string

const (
	MessagePrecacheTV   MessageType = "PRECACHE_TV"
	MessagePrecacheDone MessageType = "PRECACHE_DONE"
)

type Message struct {
	Type  MessageType `json:"type"`
	TVID  int64       `json:"tvId"`
	Count int         `json:"count"`
}

// PrecachePolicy picks which assigned media a precache run downloads.
type PrecachePolicy string

const (
	PrecacheImages PrecachePolicy = "images"
	PrecacheAll    PrecachePolicy = "all"
)

func ParsePrecachePolicy(value string) (PrecachePolicy, error) {
	switch PrecachePolicy(value) {
	case PrecacheImages, PrecacheAll:
		return PrecachePolicy(value), nil
	case "":
		return PrecacheImages, nil
	}
	return "", fmt.Errorf("unknown precache policy %q", value)
}

const precacheConcurrency = 4

// Post hands a message to the coordinator without blocking. A PRECACHE_DONE reply is offered on
// reply once every fetch has settled; no reply is sent when the assignment list cannot be loaded.
func (c *Coordinator) Post(msg Message, reply chan<- Message) {
	if msg.Type != MessagePrecacheTV {
		log.Debug().Str("type", string(msg.Type)).Msg("Ignoring unknown coordinator message")
		return
	}

	c.background(func() {
		count, err := c.Precache(context.Background(), msg.TVID)
		if err != nil {
			log.Warn().Err(err).Int64("tv_id", msg.TVID).Msg("Precache failed")
			return
		}
		if reply == nil {
			return
		}
		select {
		case reply <- Message{Type: MessagePrecacheDone, TVID: msg.TVID, Count: count}:
		default:
			log.Debug().Int64("tv_id", msg.TVID).Msg("Nobody waiting for precache reply, dropping it")
		}
	})
}

// Precache downloads the TV's active assignments into the cache and returns how many were attempted.
func (c *Coordinator) Precache(ctx context.Context, tvID int64) (int, error) {
	media, err := c.fetchTVMedia(ctx, tvID)
	if err != nil {
		return 0, err
	}

	items := SelectPrecache(media.AssignedMedia, c.policy)

	var g errgroup.Group
	g.SetLimit(precacheConcurrency)
	for _, item := range items {
		item := item
		g.Go(func() error {
			c.precacheItem(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	log.Info().Int64("tv_id", tvID).Int("count", len(items)).Str("policy", string(c.policy)).Msg("Precache finished")
	return len(items), nil
}

// SelectPrecache keeps active assignments, and only images under PrecacheImages.
func SelectPrecache(assigned []s.PlaybackItem, policy PrecachePolicy) []s.PlaybackItem {
	selected := make([]s.PlaybackItem, 0, len(assigned))
	for _, item := range assigned {
		if !item.Active {
			continue
		}
		if policy != PrecacheAll && item.Kind != s.KindImage {
			continue
		}
		selected = append(selected, item)
	}
	return selected
}

// fetchTVMedia always goes to the network, assignment lists are never served from cache.
func (c *Coordinator) fetchTVMedia(ctx context.Context, tvID int64) (s.TVMedia, error) {
	u := c.origin.ResolveReference(&url.URL{Path: "/metadata/tv/" + strconv.FormatInt(tvID, 10) + "/media"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return s.TVMedia{}, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := c.next.RoundTrip(req)
	if err != nil {
		return s.TVMedia{}, fmt.Errorf("%w: %v", e.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return s.TVMedia{}, fmt.Errorf("tv %d: %w", tvID, e.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return s.TVMedia{}, fmt.Errorf("fetch tv media: unexpected status %d", resp.StatusCode)
	}

	var media s.TVMedia
	if err = json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return s.TVMedia{}, fmt.Errorf("decode tv media: %w", err)
	}
	return media, nil
}

func (c *Coordinator) precacheItem(ctx context.Context, item s.PlaybackItem) {
	u := c.origin.ResolveReference(&url.URL{Path: "/media/" + item.Filename})
	key := u.String()

	partition := c.media
	if item.Kind == s.KindVideo {
		partition = c.video
	}

	if _, err := partition.Match(ctx, key, s.MatchOptions{IgnoreQuery: true}); err == nil {
		metrics.PrecacheItem("cached")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		metrics.PrecacheItem("failed")
		return
	}
	resp, err := c.next.RoundTrip(req)
	if err != nil {
		log.Debug().Err(err).Str("filename", item.Filename).Msg("Precache fetch failed")
		metrics.PrecacheItem("failed")
		return
	}
	defer resp.Body.Close()

	if !cacheable(resp) {
		log.Debug().Int("status", resp.StatusCode).Str("filename", item.Filename).Msg("Precache fetch not cacheable")
		metrics.PrecacheItem("failed")
		return
	}
	c.store(ctx, partition, key, resp)
	metrics.PrecacheItem("stored")
}


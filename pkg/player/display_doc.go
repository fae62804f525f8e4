package player

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/s"
)

// LoadDisplay fetches the TV's display document as a navigation, so the coordinator answers from
// its shell cache when the origin is unreachable. Anything that does not decode, like the offline
// placeholder, is an empty playlist.
func LoadDisplay(ctx context.Context, client *http.Client, origin *url.URL, tvID int64) s.DisplayDocument {
	doc := s.DisplayDocument{TV: s.TV{ID: tvID}, Items: []s.DisplayItem{}}

	u := origin.ResolveReference(&url.URL{Path: "/tv/" + strconv.FormatInt(tvID, 10)})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build display request")
		return doc
	}
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Warn().Err(err).Int64("tv_id", tvID).Msg("Failed to load display")
		return doc
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Int64("tv_id", tvID).Msg("Display load returned an error")
		return doc
	}

	var loaded s.DisplayDocument
	if err = json.NewDecoder(resp.Body).Decode(&loaded); err != nil {
		log.Warn().Err(fmt.Errorf("decode display: %w", err)).Int64("tv_id", tvID).Msg("Display unavailable, showing placeholder")
		return doc
	}
	if loaded.Items == nil {
		loaded.Items = []s.DisplayItem{}
	}
	return loaded
}

// Transition is the document's image duration, or fallback when it carries none.
func Transition(doc s.DisplayDocument, fallback time.Duration) time.Duration {
	if doc.TransitionMs > 0 {
		return time.Duration(doc.TransitionMs) * time.Millisecond
	}
	return fallback
}

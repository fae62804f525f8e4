package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/database"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/storage"
)

const MediaPathPrefix = "/media/"

type Handlers struct {
	Storage     storage.Backend
	Database    database.Backend
	TokenSecret []byte
	Debug       bool
}

func idParam(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// TVMedia is the live metadata list consumed by precaching, never cached by intermediaries.
func (h *Handlers) TVMedia(c *gin.Context) {
	tvID, ok := idParam(c, "tvId")
	if !ok {
		return
	}

	result, err := h.Database.GetTVMedia(c.Request.Context(), tvID)
	c.Header("Cache-Control", "no-store")
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "TV not found"})
		} else {
			log.Error().Err(err).Int64("tv_id", tvID).Msg("Failed to get tv media")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get tv media"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handlers) TVInfo(c *gin.Context) {
	tvID, ok := idParam(c, "tvId")
	if !ok {
		return
	}

	tv, err := h.Database.GetTV(c.Request.Context(), tvID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "TV not found"})
		} else {
			log.Error().Err(err).Int64("tv_id", tvID).Msg("Failed to get tv")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get tv"})
		}
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, tv)
}

// Display serves the document a player loads on navigation: the TV, its timing and its playlist.
func (h *Handlers) Display(c *gin.Context) {
	tvID, ok := idParam(c, "tvId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	tv, err := h.Database.GetTV(ctx, tvID)
	if err == nil {
		var media s.TVMedia
		if media, err = h.Database.GetTVMedia(ctx, tvID); err == nil {
			c.Header("Cache-Control", "no-cache")
			c.JSON(http.StatusOK, BuildDisplayDocument(tv, media))
			return
		}
	}

	if errors.Is(err, e.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "TV not found"})
		return
	}
	log.Error().Err(err).Int64("tv_id", tvID).Msg("Failed to build display document")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load display"})
}

func BuildDisplayDocument(tv s.TV, media s.TVMedia) s.DisplayDocument {
	doc := s.DisplayDocument{TV: tv, TransitionMs: tv.TransitionMs, Items: make([]s.DisplayItem, 0, len(media.AssignedMedia))}
	for _, item := range media.AssignedMedia {
		if !item.Active {
			continue
		}
		doc.Items = append(doc.Items, s.DisplayItem{
			URL:          MediaPathPrefix + item.Filename,
			Name:         item.OriginalName,
			Kind:         item.Kind,
			DisplayOrder: item.DisplayOrder,
		})
	}
	return doc
}

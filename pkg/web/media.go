package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/byterange"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/utils"
)

const (
	CacheControlImage    = "public, max-age=31536000, immutable"
	CacheControlVideo    = "public, max-age=3600, must-revalidate"
	CacheControlFallback = "public, max-age=86400, must-revalidate"
)

func cacheControl(kind s.MediaKind) string {
	switch kind {
	case s.KindImage:
		return CacheControlImage
	case s.KindVideo:
		return CacheControlVideo
	default:
		return CacheControlFallback
	}
}

// WeakETag derives the validator from modification time and size.
func WeakETag(info s.BlobInfo) string {
	sum := xxhash.Sum64String(fmt.Sprintf("%d-%d", info.ModTime.UnixMilli(), info.Size))
	return `W/"` + strconv.FormatUint(sum, 16) + `"`
}

func etagMatches(ifNoneMatch, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range utils.CleanStringSlice(strings.Split(ifNoneMatch, ",")) {
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}

// notModified evaluates If-None-Match, falling back to If-Modified-Since only when no entity tag
// was sent.
func notModified(r *http.Request, etag string, modTime time.Time) bool {
	if inm := r.Header.Get("If-None-Match"); inm != "" {
		return etagMatches(inm, etag)
	}
	if ims := r.Header.Get("If-Modified-Since"); ims != "" {
		t, err := http.ParseTime(ims)
		if err != nil {
			return false
		}
		return !modTime.Truncate(time.Second).After(t)
	}
	return false
}

// ServeMedia streams a stored blob honouring Range and conditional requests.
func (h *Handlers) ServeMedia(c *gin.Context) {
	name := c.Param("filename")
	ctx := c.Request.Context()

	info, err := h.Storage.Stat(ctx, name)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		} else {
			log.Error().Err(err).Str("filename", name).Msg("Failed to stat media")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read media"})
		}
		return
	}

	mimeType := utils.MimeType(name)
	kind := utils.KindFromMimeType(mimeType)
	etag := WeakETag(info)

	hdr := c.Writer.Header()
	hdr.Set("Content-Type", mimeType)
	hdr.Set("Cache-Control", cacheControl(kind))
	hdr.Set("ETag", etag)
	hdr.Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	hdr.Set("X-Content-Type-Options", "nosniff")
	if kind == s.KindVideo {
		hdr.Set("Accept-Ranges", "bytes")
	} else {
		hdr.Set("Accept-Ranges", "none")
	}

	rangeHeader := c.GetHeader("Range")
	if rangeHeader == "" && notModified(c.Request, etag, info.ModTime) {
		c.Status(http.StatusNotModified)
		return
	}

	if c.Request.Method == http.MethodHead {
		hdr.Set("Content-Length", strconv.FormatInt(info.Size, 10))
		c.Status(http.StatusOK)
		return
	}

	if rangeHeader != "" && kind == s.KindVideo {
		h.serveRange(c, info, rangeHeader)
		return
	}

	body, err := h.Storage.Open(ctx, name, 0, -1)
	if err != nil {
		h.openFailed(c, name, err)
		return
	}
	defer body.Close()

	hdr.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	c.Status(http.StatusOK)
	copyBody(c, name, body)
}

func (h *Handlers) serveRange(c *gin.Context, info s.BlobInfo, rangeHeader string) {
	hdr := c.Writer.Header()

	req, err := byterange.Parse(rangeHeader)
	var span byterange.RangeSpec
	if err == nil {
		span, err = req.Resolve(info.Size)
	}
	if err != nil {
		log.Debug().Str("range", rangeHeader).Int64("size", info.Size).Msg("Unsatisfiable range")
		hdr.Set("Content-Range", byterange.Unsatisfiable(info.Size))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	body, err := h.Storage.Open(c.Request.Context(), info.Name, span.Start, span.Length())
	if err != nil {
		h.openFailed(c, info.Name, err)
		return
	}
	defer body.Close()

	hdr.Set("Content-Range", span.ContentRange())
	hdr.Set("Content-Length", strconv.FormatInt(span.Length(), 10))
	c.Status(http.StatusPartialContent)
	copyBody(c, info.Name, body)
}

func (h *Handlers) openFailed(c *gin.Context, name string, err error) {
	for _, key := range []string{"Content-Type", "Cache-Control", "ETag", "Last-Modified", "Accept-Ranges"} {
		c.Writer.Header().Del(key)
	}
	if errors.Is(err, e.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	log.Error().Err(err).Str("filename", name).Msg("Failed to open media")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read media"})
}

func copyBody(c *gin.Context, name string, body io.Reader) {
	c.Writer.WriteHeaderNow()
	if _, err := io.Copy(c.Writer, body); err != nil {
		// Players abort ranged reads all the time
		log.Debug().Err(err).Str("filename", name).Msg("Media stream ended early")
	}
}

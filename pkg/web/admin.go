package web

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/storage"
	"github.com/terrycain/station-tv-server/pkg/utils"
)

const (
	MaxUploadFiles = 10
	MaxUploadBytes = 2 << 30
)

// adminError maps backend errors to responses, logging anything unexpected.
func adminError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrInvalidTransitionTime), errors.Is(err, e.ErrInvalidAssignment),
		errors.Is(err, e.ErrUnsupportedMediaType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

type StationRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

func (h *Handlers) ListStations(c *gin.Context) {
	stations, err := h.Database.ListStations(c.Request.Context())
	if err != nil {
		adminError(c, err, "failed to list stations")
		return
	}
	c.JSON(http.StatusOK, stations)
}

func (h *Handlers) CreateStation(c *gin.Context) {
	var json StationRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	station, err := h.Database.CreateStation(c.Request.Context(), json.Name, json.Location)
	if err != nil {
		adminError(c, err, "failed to create station")
		return
	}
	c.JSON(http.StatusCreated, station)
}

func (h *Handlers) UpdateStation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var json StationRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Database.UpdateStation(c.Request.Context(), s.Station{ID: id, Name: json.Name, Location: json.Location}); err != nil {
		adminError(c, err, "failed to update station")
		return
	}
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

func (h *Handlers) DeleteStation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Database.DeleteStation(c.Request.Context(), id); err != nil {
		adminError(c, err, "failed to delete station")
		return
	}
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

type TVRequest struct {
	StationID int64  `json:"gas_station_id"`
	Name      string `json:"name" binding:"required"`
}

func (h *Handlers) ListTVs(c *gin.Context) {
	var stationID int64
	if raw := c.Query("station"); raw != "" {
		var err error
		if stationID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "station must be an integer"})
			return
		}
	}

	tvs, err := h.Database.ListTVs(c.Request.Context(), stationID)
	if err != nil {
		adminError(c, err, "failed to list tvs")
		return
	}
	c.JSON(http.StatusOK, tvs)
}

func (h *Handlers) CreateTV(c *gin.Context) {
	var json TVRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tv, err := h.Database.CreateTV(c.Request.Context(), json.StationID, json.Name)
	if err != nil {
		adminError(c, err, "failed to create tv")
		return
	}
	c.JSON(http.StatusCreated, tv)
}

func (h *Handlers) UpdateTV(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var json TVRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Database.UpdateTV(c.Request.Context(), s.TV{ID: id, Name: json.Name}); err != nil {
		adminError(c, err, "failed to update tv")
		return
	}
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

func (h *Handlers) DeleteTV(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Database.DeleteTV(c.Request.Context(), id); err != nil {
		adminError(c, err, "failed to delete tv")
		return
	}
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

type TimingRequest struct {
	TransitionMs int `json:"transitionTime" binding:"required"`
}

func (h *Handlers) SetTiming(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var json TimingRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Database.SetTransitionTime(c.Request.Context(), id, json.TransitionMs); err != nil {
		adminError(c, err, "failed to set transition time")
		return
	}
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

type AssignmentRequest struct {
	MediaIDs []int64 `json:"mediaIds"`
}

// AssignMedia replaces the TV's whole playlist in the given order.
func (h *Handlers) AssignMedia(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var json AssignmentRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if json.MediaIDs == nil {
		json.MediaIDs = []int64{}
	}

	if err := h.Database.ReplaceAssignments(c.Request.Context(), id, json.MediaIDs); err != nil {
		adminError(c, err, "failed to assign media")
		return
	}
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

type ActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *Handlers) SetAssignmentActive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	mediaID, ok := idParam(c, "mediaId")
	if !ok {
		return
	}
	var json ActiveRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Database.SetAssignmentActive(c.Request.Context(), id, mediaID, *json.Active); err != nil {
		adminError(c, err, "failed to update assignment")
		return
	}
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

func (h *Handlers) ListMedia(c *gin.Context) {
	media, err := h.Database.ListMedia(c.Request.Context())
	if err != nil {
		adminError(c, err, "failed to list media")
		return
	}
	c.JSON(http.StatusOK, media)
}

// UploadMedia stores every file of the multipart "media" field under a fresh name.
func (h *Handlers) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart upload"})
		return
	}

	files := form.File["media"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}
	if len(files) > MaxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many files, at most " + strconv.Itoa(MaxUploadFiles)})
		return
	}
	for _, fh := range files {
		if !utils.AllowedUploadExt(filepath.Ext(fh.Filename)) {
			adminError(c, e.ErrUnsupportedMediaType, "unsupported media type")
			return
		}
	}

	ctx := c.Request.Context()
	created := make([]s.MediaAsset, 0, len(files))
	for _, fh := range files {
		name := storage.NewBlobName(fh.Filename)

		f, err := fh.Open()
		if err != nil {
			adminError(c, err, "failed to read upload")
			return
		}
		written, err := h.Storage.Write(ctx, name, f)
		_ = f.Close()
		if err != nil {
			log.Error().Err(err).Str("filename", name).Msg("Failed to store file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
			return
		}

		asset, err := h.Database.CreateMedia(ctx, s.MediaAsset{
			Filename:     name,
			OriginalName: fh.Filename,
			Kind:         utils.KindFromMimeType(utils.MimeType(name)),
			Size:         written,
		})
		if err != nil {
			_ = h.Storage.Delete(ctx, name) // Attempt to clean up file as we've failed to save it to db
			adminError(c, err, "failed to store file")
			return
		}
		created = append(created, asset)
	}

	c.JSON(http.StatusCreated, created)
}

// DeleteMedia removes the row and its assignments, then the blob.
func (h *Handlers) DeleteMedia(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	deleted, err := h.Database.DeleteMedia(ctx, id)
	if err != nil {
		adminError(c, err, "failed to delete media")
		return
	}
	if err = h.Storage.Delete(ctx, deleted.Filename); err != nil {
		log.Warn().Err(err).Str("filename", deleted.Filename).Msg("Failed to delete media blob, leaving orphan")
	}
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

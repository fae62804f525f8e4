package s

import "time"

type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
	KindOther MediaKind = "other"
)

type Station struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type TV struct {
	ID           int64     `json:"id"`
	StationID    int64     `json:"gas_station_id"`
	Name         string    `json:"name"`
	TransitionMs int       `json:"image_transition_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// MediaAsset is an uploaded blob. Filenames are server generated and never reused.
type MediaAsset struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Kind         MediaKind `json:"file_type"`
	Size         int64     `json:"file_size"`
	UploadedAt   time.Time `json:"upload_date"`
}

// PlaybackItem is an asset assigned to one TV at a position in its playlist.
type PlaybackItem struct {
	MediaAsset
	TVID         int64 `json:"tv_id"`
	MediaID      int64 `json:"media_id"`
	DisplayOrder int   `json:"display_order"`
	Active       bool  `json:"is_active"`
}

type TVMedia struct {
	AllMedia      []MediaAsset   `json:"allMedia"`
	AssignedMedia []PlaybackItem `json:"assignedMedia"`
	TVID          int64          `json:"tvId"`
}

// BlobInfo is what the storage layer knows about a stored blob.
type BlobInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

type DisplayItem struct {
	URL          string    `json:"url"`
	Name         string    `json:"name"`
	Kind         MediaKind `json:"kind"`
	DisplayOrder int       `json:"displayOrder"`
}

// DisplayDocument is served on the TV display path and drives a player session.
type DisplayDocument struct {
	TV           TV            `json:"tv"`
	TransitionMs int           `json:"transitionMs"`
	Items        []DisplayItem `json:"items"`
}

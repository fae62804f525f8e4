package utils

import (
	"path"
	"regexp"
	"strings"

	"github.com/terrycain/station-tv-server/pkg/s"
)

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
}

var (
	imagePathRegex  = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp|avif|svg)$`)
	videoPathRegex  = regexp.MustCompile(`(?i)\.(mp4|webm|avi|mov|wmv)$`)
	uploadExtRegex  = regexp.MustCompile(`(?i)^\.(jpe?g|png|gif|webp|mp4|avi|mov|wmv|webm)$`)
	defaultMimeType = "application/octet-stream"
)

// MimeType maps a filename to a content type by extension.
func MimeType(name string) string {
	if mt, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return mt
	}
	return defaultMimeType
}

func KindFromMimeType(mimeType string) s.MediaKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return s.KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return s.KindVideo
	default:
		return s.KindOther
	}
}

// KindFromPath classifies a URL path or filename, ignoring any query string.
func KindFromPath(p string) s.MediaKind {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	switch {
	case imagePathRegex.MatchString(p):
		return s.KindImage
	case videoPathRegex.MatchString(p):
		return s.KindVideo
	default:
		return s.KindOther
	}
}

// AllowedUploadExt reports whether an upload with this extension may be stored.
func AllowedUploadExt(ext string) bool {
	return uploadExtRegex.MatchString(ext)
}

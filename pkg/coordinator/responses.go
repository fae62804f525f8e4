package coordinator

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/terrycain/station-tv-server/pkg/byterange"
	"github.com/terrycain/station-tv-server/pkg/s"
)

const OfflinePage = "<h1>Offline</h1>"

// cacheable only accepts complete successful objects, a 206 must never stand in for the whole file.
func cacheable(resp *http.Response) bool {
	if resp.StatusCode < 200 || resp.StatusCode > 299 || resp.StatusCode == http.StatusPartialContent ||
		resp.StatusCode == http.StatusNoContent {
		return false
	}
	if cr := resp.Header.Get("Content-Range"); cr != "" {
		parsed, err := byterange.ParseContentRange(cr)
		if err != nil || !parsed.Complete() {
			return false
		}
	}
	return true
}

func newResponse(req *http.Request, status int, header http.Header, body []byte) *http.Response {
	header.Set("Content-Length", strconv.Itoa(len(body)))
	return &http.Response{
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// synthesizeRange answers a Range request from a cached full object.
func synthesizeRange(req *http.Request, entry s.CacheEntry) *http.Response {
	total := int64(len(entry.Body))
	header := http.Header{}
	if ct := entry.Header.Get("Content-Type"); ct != "" {
		header.Set("Content-Type", ct)
	}
	header.Set("Accept-Ranges", "bytes")

	parsed, err := byterange.Parse(req.Header.Get("Range"))
	var span byterange.RangeSpec
	if err == nil {
		span, err = parsed.Resolve(total)
	}
	if err != nil {
		header.Set("Content-Range", byterange.Unsatisfiable(total))
		return newResponse(req, http.StatusRequestedRangeNotSatisfiable, header, nil)
	}

	header.Set("Content-Range", span.ContentRange())
	return newResponse(req, http.StatusPartialContent, header, entry.Body[span.Start:span.End+1])
}

// unavailable is what the player sees for uncached media while offline.
func unavailable(req *http.Request) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Cache-Control", "no-store")
	return newResponse(req, http.StatusServiceUnavailable, header, []byte("network unavailable and nothing cached"))
}

func offlinePage(req *http.Request) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Cache-Control", "no-store")
	return newResponse(req, http.StatusOK, header, []byte(OfflinePage))
}

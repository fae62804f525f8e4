package web_test

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/terrycain/station-tv-server/pkg/storage/disk"
	"github.com/terrycain/station-tv-server/pkg/web"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	if _, exists := os.LookupEnv("DEBUG"); exists {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	os.Exit(m.Run())
}

type mediaFixture struct {
	router *gin.Engine
	video  []byte
	image  []byte
}

func getMediaStuff(t *testing.T) mediaFixture {
	t.Helper()
	backend, err := disk.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	f := mediaFixture{video: make([]byte, 1000), image: make([]byte, 300)}
	rand.Read(f.video)
	rand.Read(f.image)

	if _, err = backend.Write(context.Background(), "clip.mp4", bytes.NewReader(f.video)); err != nil {
		t.Fatal(err)
	}
	if _, err = backend.Write(context.Background(), "poster.png", bytes.NewReader(f.image)); err != nil {
		t.Fatal(err)
	}

	f.router = web.GetRouter(web.Handlers{Storage: backend}, false)
	return f
}

func doRequest(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestServeImageFull(t *testing.T) {
	f := getMediaStuff(t)

	w := doRequest(f.router, "GET", "/media/poster.png", nil)

	if diff := cmp.Diff(200, w.Code); diff != "" {
		t.Fatal(diff)
	}
	expectedHeaders := map[string]string{
		"Content-Type":           "image/png",
		"Content-Length":         "300",
		"Accept-Ranges":          "none",
		"Cache-Control":          web.CacheControlImage,
		"X-Content-Type-Options": "nosniff",
	}
	for k, v := range expectedHeaders {
		if diff := cmp.Diff(v, w.Header().Get(k)); diff != "" {
			t.Errorf("header %s mismatch (-want +got):\n%s", k, diff)
		}
	}
	if w.Header().Get("ETag") == "" || w.Header().Get("Last-Modified") == "" {
		t.Error("Expected validators to be set")
	}
	if !bytes.Equal(f.image, w.Body.Bytes()) {
		t.Error("Body differs from stored image")
	}
}

func TestServeUploadsAlias(t *testing.T) {
	f := getMediaStuff(t)

	w := doRequest(f.router, "GET", "/uploads/poster.png", nil)
	if diff := cmp.Diff(200, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func TestServeVideoRanges(t *testing.T) {
	f := getMediaStuff(t)
	size := len(f.video)

	tables := []struct {
		start int
		end   int
	}{
		{0, 0}, {0, 99}, {200, 299}, {500, 999}, {999, 999}, {0, 999},
	}

	for _, table := range tables {
		t.Run(fmt.Sprintf("%d-%d", table.start, table.end), func(t *testing.T) {
			w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{
				"Range": fmt.Sprintf("bytes=%d-%d", table.start, table.end),
			})

			if diff := cmp.Diff(206, w.Code); diff != "" {
				t.Fatal(diff)
			}
			expectedRange := fmt.Sprintf("bytes %d-%d/%d", table.start, table.end, size)
			if diff := cmp.Diff(expectedRange, w.Header().Get("Content-Range")); diff != "" {
				t.Fatal(diff)
			}
			if diff := cmp.Diff(fmt.Sprint(table.end-table.start+1), w.Header().Get("Content-Length")); diff != "" {
				t.Fatal(diff)
			}
			if !bytes.Equal(f.video[table.start:table.end+1], w.Body.Bytes()) {
				t.Fatal("Body differs from requested byte span")
			}
			if diff := cmp.Diff("bytes", w.Header().Get("Accept-Ranges")); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestServeVideoOpenEndedRange(t *testing.T) {
	f := getMediaStuff(t)

	w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{"Range": "bytes=900-"})

	if diff := cmp.Diff(206, w.Code); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff("bytes 900-999/1000", w.Header().Get("Content-Range")); diff != "" {
		t.Fatal(diff)
	}
	if !bytes.Equal(f.video[900:], w.Body.Bytes()) {
		t.Fatal("Body differs from requested byte span")
	}
}

func TestServeVideoUnsatisfiable(t *testing.T) {
	f := getMediaStuff(t)

	for _, rangeHeader := range []string{"bytes=1000-", "bytes=5000-6000", "bytes=abc-10"} {
		t.Run(rangeHeader, func(t *testing.T) {
			w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{"Range": rangeHeader})

			if diff := cmp.Diff(416, w.Code); diff != "" {
				t.Fatal(diff)
			}
			if diff := cmp.Diff("bytes */1000", w.Header().Get("Content-Range")); diff != "" {
				t.Fatal(diff)
			}
			if w.Body.Len() != 0 {
				t.Fatalf("Expected no body, got %d bytes", w.Body.Len())
			}
		})
	}
}

func TestServeImageIgnoresRange(t *testing.T) {
	f := getMediaStuff(t)

	w := doRequest(f.router, "GET", "/media/poster.png", map[string]string{"Range": "bytes=0-10"})

	if diff := cmp.Diff(200, w.Code); diff != "" {
		t.Fatal(diff)
	}
	if !bytes.Equal(f.image, w.Body.Bytes()) {
		t.Fatal("Expected full image body")
	}
}

func TestServeConditional(t *testing.T) {
	f := getMediaStuff(t)

	first := doRequest(f.router, "GET", "/media/clip.mp4", nil)
	if diff := cmp.Diff(200, first.Code); diff != "" {
		t.Fatal(diff)
	}
	etag := first.Header().Get("ETag")
	lastModified := first.Header().Get("Last-Modified")

	t.Run("if-none-match", func(t *testing.T) {
		w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{"If-None-Match": etag})
		if diff := cmp.Diff(304, w.Code); diff != "" {
			t.Fatal(diff)
		}
		if w.Body.Len() != 0 {
			t.Fatal("Expected no body on 304")
		}
		for _, k := range []string{"Cache-Control", "ETag", "Last-Modified"} {
			if diff := cmp.Diff(first.Header().Get(k), w.Header().Get(k)); diff != "" {
				t.Errorf("header %s mismatch (-want +got):\n%s", k, diff)
			}
		}
	})

	t.Run("if-none-match-list", func(t *testing.T) {
		w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{"If-None-Match": `"other", ` + etag})
		if diff := cmp.Diff(304, w.Code); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("if-none-match-stale", func(t *testing.T) {
		w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{"If-None-Match": `W/"stale"`})
		if diff := cmp.Diff(200, w.Code); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("if-modified-since", func(t *testing.T) {
		w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{"If-Modified-Since": lastModified})
		if diff := cmp.Diff(304, w.Code); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("if-modified-since-older", func(t *testing.T) {
		older := time.Now().Add(-48 * time.Hour).UTC().Format(http.TimeFormat)
		w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{"If-Modified-Since": older})
		if diff := cmp.Diff(200, w.Code); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("range-skips-conditional", func(t *testing.T) {
		w := doRequest(f.router, "GET", "/media/clip.mp4", map[string]string{"If-None-Match": etag, "Range": "bytes=0-9"})
		if diff := cmp.Diff(206, w.Code); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestServeHead(t *testing.T) {
	f := getMediaStuff(t)

	w := doRequest(f.router, "HEAD", "/media/clip.mp4", nil)

	if diff := cmp.Diff(200, w.Code); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff("1000", w.Header().Get("Content-Length")); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff(web.CacheControlVideo, w.Header().Get("Cache-Control")); diff != "" {
		t.Fatal(diff)
	}
	if w.Body.Len() != 0 {
		t.Fatal("Expected no body on HEAD")
	}
}

func TestServeMissing(t *testing.T) {
	f := getMediaStuff(t)

	w := doRequest(f.router, "GET", "/media/nope.mp4", nil)
	if diff := cmp.Diff(404, w.Code); diff != "" {
		t.Fatal(diff)
	}
	if w.Header().Get("ETag") != "" {
		t.Error("Expected no validators on a missing file")
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
)

func TestUnroutedPath(t *testing.T) {
	tables := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"", "/"},
		{"/favicon.ico", "/*"},
		{"/media/3f2a.mp4", "/media/*"},
		{"/static/js/app.js", "/static/*"},
	}

	for _, table := range tables {
		if got := unroutedPath(table.path); got != table.want {
			t.Errorf("unroutedPath(%q) = %q, want %q", table.path, got, table.want)
		}
	}
}

func TestRequestPathMapper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen []string
	record := func(c *gin.Context) { seen = append(seen, requestPathMapper(c)) }

	router := gin.New()
	router.GET("/media/:filename", record)
	router.NoRoute(record)

	for _, p := range []string{"/media/a.mp4", "/media/b.png", "/tv/1"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if diff := cmp.Diff([]string{"/media/:filename", "/media/:filename", "/tv/*"}, seen); diff != "" {
		t.Errorf("requestPathMapper() mismatch (-want +got):\n%s", diff)
	}
}

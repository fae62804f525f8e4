package web_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/mocks"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/web"
)

var testSecret = []byte("not-a-real-secret")

func getAPIStuff(t *testing.T) (*gin.Engine, *mocks.MockDatabaseBackend, *mocks.MockStorageBackend) {
	t.Helper()
	ctrl := gomock.NewController(t)
	db := mocks.NewMockDatabaseBackend(ctrl)
	store := mocks.NewMockStorageBackend(ctrl)

	router := web.GetRouter(web.Handlers{Storage: store, Database: db, TokenSecret: testSecret}, false)
	return router, db, store
}

func adminHeaders(t *testing.T) map[string]string {
	t.Helper()
	token, err := web.MintAdminToken(testSecret, "tester", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]string{"Authorization": "Bearer " + token, "Content-Type": "application/json"}
}

func doJSON(router *gin.Engine, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestTVMedia(t *testing.T) {
	router, db, _ := getAPIStuff(t)

	expected := s.TVMedia{
		TVID:     3,
		AllMedia: []s.MediaAsset{{ID: 1, Filename: "a.png", Kind: s.KindImage}},
		AssignedMedia: []s.PlaybackItem{
			{MediaAsset: s.MediaAsset{ID: 1, Filename: "a.png", Kind: s.KindImage}, TVID: 3, MediaID: 1, Active: true},
		},
	}
	db.EXPECT().GetTVMedia(gomock.Any(), int64(3)).Return(expected, nil)

	w := doRequest(router, "GET", "/metadata/tv/3/media", nil)
	if diff := cmp.Diff(200, w.Code); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff("no-store", w.Header().Get("Cache-Control")); diff != "" {
		t.Fatal(diff)
	}

	var got s.TVMedia
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestTVMediaNotFound(t *testing.T) {
	router, db, _ := getAPIStuff(t)
	db.EXPECT().GetTVMedia(gomock.Any(), int64(99)).Return(s.TVMedia{}, e.ErrNotFound)

	w := doRequest(router, "GET", "/metadata/tv/99/media", nil)
	if diff := cmp.Diff(404, w.Code); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff(`{"error":"TV not found"}`, w.Body.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestTVInfoBadID(t *testing.T) {
	router, _, _ := getAPIStuff(t)

	w := doRequest(router, "GET", "/metadata/tv/abc", nil)
	if diff := cmp.Diff(400, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func TestDisplayDocument(t *testing.T) {
	router, db, _ := getAPIStuff(t)

	tv := s.TV{ID: 3, Name: "Pump 3", TransitionMs: 8000}
	db.EXPECT().GetTV(gomock.Any(), int64(3)).Return(tv, nil)
	db.EXPECT().GetTVMedia(gomock.Any(), int64(3)).Return(s.TVMedia{
		TVID: 3,
		AssignedMedia: []s.PlaybackItem{
			{MediaAsset: s.MediaAsset{Filename: "a.png", OriginalName: "promo.png", Kind: s.KindImage}, DisplayOrder: 0, Active: true},
			{MediaAsset: s.MediaAsset{Filename: "b.mp4", Kind: s.KindVideo}, DisplayOrder: 1, Active: false},
			{MediaAsset: s.MediaAsset{Filename: "c.mp4", Kind: s.KindVideo}, DisplayOrder: 2, Active: true},
		},
	}, nil)

	w := doRequest(router, "GET", "/tv/3", nil)
	if diff := cmp.Diff(200, w.Code); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff("no-cache", w.Header().Get("Cache-Control")); diff != "" {
		t.Fatal(diff)
	}

	var got s.DisplayDocument
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	expected := s.DisplayDocument{
		TV:           tv,
		TransitionMs: 8000,
		Items: []s.DisplayItem{
			{URL: "/media/a.png", Name: "promo.png", Kind: s.KindImage, DisplayOrder: 0},
			{URL: "/media/c.mp4", Kind: s.KindVideo, DisplayOrder: 2},
		},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestAdminAuth(t *testing.T) {
	router, _, _ := getAPIStuff(t)

	expired, err := web.MintAdminToken(testSecret, "tester", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	otherSecret, err := web.MintAdminToken([]byte("other"), "tester", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tables := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", 400},
		{"not-bearer", "Basic dXNlcjpwYXNz", 400},
		{"garbage", "Bearer abc.def.ghi", 401},
		{"expired", "Bearer " + expired, 401},
		{"wrong-secret", "Bearer " + otherSecret, 401},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			headers := map[string]string{}
			if table.header != "" {
				headers["Authorization"] = table.header
			}
			w := doRequest(router, "GET", "/admin/stations", headers)
			if diff := cmp.Diff(table.code, w.Code); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestAdminAuthNoSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := web.GetRouter(web.Handlers{Database: mocks.NewMockDatabaseBackend(ctrl)}, false)

	w := doRequest(router, "GET", "/admin/stations", adminHeaders(t))
	if diff := cmp.Diff(401, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func TestMintAdminTokenEmptySecret(t *testing.T) {
	if _, err := web.MintAdminToken(nil, "tester", time.Hour); err == nil {
		t.Fatal("Expected an error minting with no secret")
	}
}

func TestCreateStation(t *testing.T) {
	router, db, _ := getAPIStuff(t)

	db.EXPECT().CreateStation(gomock.Any(), "North", "Main St").Return(s.Station{ID: 1, Name: "North", Location: "Main St"}, nil)

	w := doJSON(router, "POST", "/admin/stations", `{"name":"North","location":"Main St"}`, adminHeaders(t))
	if diff := cmp.Diff(201, w.Code); diff != "" {
		t.Fatal(diff)
	}

	w = doJSON(router, "POST", "/admin/stations", `{"location":"Main St"}`, adminHeaders(t))
	if diff := cmp.Diff(400, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func TestSetTiming(t *testing.T) {
	router, db, _ := getAPIStuff(t)

	db.EXPECT().SetTransitionTime(gomock.Any(), int64(2), 7000).Return(nil)
	db.EXPECT().SetTransitionTime(gomock.Any(), int64(2), 10).Return(e.ErrInvalidTransitionTime)
	db.EXPECT().SetTransitionTime(gomock.Any(), int64(5), 7000).Return(e.ErrNotFound)

	w := doJSON(router, "PUT", "/admin/tvs/2/timing", `{"transitionTime":7000}`, adminHeaders(t))
	if diff := cmp.Diff(204, w.Code); diff != "" {
		t.Fatal(diff)
	}
	w = doJSON(router, "PUT", "/admin/tvs/2/timing", `{"transitionTime":10}`, adminHeaders(t))
	if diff := cmp.Diff(400, w.Code); diff != "" {
		t.Fatal(diff)
	}
	w = doJSON(router, "PUT", "/admin/tvs/5/timing", `{"transitionTime":7000}`, adminHeaders(t))
	if diff := cmp.Diff(404, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func TestAssignMedia(t *testing.T) {
	router, db, _ := getAPIStuff(t)

	db.EXPECT().ReplaceAssignments(gomock.Any(), int64(2), []int64{5, 3, 5}).Return(nil)
	db.EXPECT().ReplaceAssignments(gomock.Any(), int64(2), []int64{}).Return(nil)
	db.EXPECT().ReplaceAssignments(gomock.Any(), int64(2), []int64{404}).Return(e.ErrInvalidAssignment)

	w := doJSON(router, "PUT", "/admin/tvs/2/media", `{"mediaIds":[5,3,5]}`, adminHeaders(t))
	if diff := cmp.Diff(204, w.Code); diff != "" {
		t.Fatal(diff)
	}
	w = doJSON(router, "PUT", "/admin/tvs/2/media", `{}`, adminHeaders(t))
	if diff := cmp.Diff(204, w.Code); diff != "" {
		t.Fatal(diff)
	}
	w = doJSON(router, "PUT", "/admin/tvs/2/media", `{"mediaIds":[404]}`, adminHeaders(t))
	if diff := cmp.Diff(400, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func TestSetAssignmentActive(t *testing.T) {
	router, db, _ := getAPIStuff(t)

	db.EXPECT().SetAssignmentActive(gomock.Any(), int64(2), int64(7), false).Return(nil)

	w := doJSON(router, "PUT", "/admin/tvs/2/media/7/active", `{"active":false}`, adminHeaders(t))
	if diff := cmp.Diff(204, w.Code); diff != "" {
		t.Fatal(diff)
	}
	w = doJSON(router, "PUT", "/admin/tvs/2/media/7/active", `{}`, adminHeaders(t))
	if diff := cmp.Diff(400, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func multipartUpload(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range names {
		part, err := mw.CreateFormFile("media", name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write([]byte("content of " + name))
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	router, db, store := getAPIStuff(t)

	store.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(18), nil).Times(2)
	db.EXPECT().CreateMedia(gomock.Any(), gomock.Any()).DoAndReturn(func(_ interface{}, m s.MediaAsset) (s.MediaAsset, error) {
		m.ID = 1
		return m, nil
	}).Times(2)

	body, contentType := multipartUpload(t, "promo.PNG", "clip.mp4")
	headers := adminHeaders(t)
	headers["Content-Type"] = contentType

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/media", body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)

	if diff := cmp.Diff(201, w.Code); diff != "" {
		t.Fatal(diff)
	}
	var created []s.MediaAsset
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(2, len(created)); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff(s.KindImage, created[0].Kind); diff != "" {
		t.Fatal(diff)
	}
	if !strings.HasSuffix(created[0].Filename, ".png") || created[0].Filename == "promo.png" {
		t.Fatalf("Unexpected stored filename %q", created[0].Filename)
	}
	if diff := cmp.Diff(s.KindVideo, created[1].Kind); diff != "" {
		t.Fatal(diff)
	}
}

func TestUploadMediaRejectsType(t *testing.T) {
	router, _, _ := getAPIStuff(t)

	body, contentType := multipartUpload(t, "notes.txt")
	headers := adminHeaders(t)
	headers["Content-Type"] = contentType

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/media", body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)

	if diff := cmp.Diff(400, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func TestUploadMediaCleansUpOnDBFailure(t *testing.T) {
	router, db, store := getAPIStuff(t)

	var storedName string
	store.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ interface{}, name string, _ interface{}) (int64, error) {
		storedName = name
		return 10, nil
	})
	db.EXPECT().CreateMedia(gomock.Any(), gomock.Any()).Return(s.MediaAsset{}, errors.New("disk full"))
	store.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ interface{}, name string) error {
		if name != storedName {
			t.Errorf("Deleted %q, expected %q", name, storedName)
		}
		return nil
	})

	body, contentType := multipartUpload(t, "promo.jpg")
	headers := adminHeaders(t)
	headers["Content-Type"] = contentType

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/media", body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)

	if diff := cmp.Diff(500, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

func TestDeleteMedia(t *testing.T) {
	router, db, store := getAPIStuff(t)

	gomock.InOrder(
		db.EXPECT().DeleteMedia(gomock.Any(), int64(4)).Return(s.MediaAsset{ID: 4, Filename: "x.mp4"}, nil),
		store.EXPECT().Delete(gomock.Any(), "x.mp4").Return(e.ErrNotFound),
	)
	db.EXPECT().DeleteMedia(gomock.Any(), int64(5)).Return(s.MediaAsset{}, e.ErrNotFound)

	w := doJSON(router, "DELETE", "/admin/media/4", "", adminHeaders(t))
	if diff := cmp.Diff(204, w.Code); diff != "" {
		t.Fatal(diff)
	}
	w = doJSON(router, "DELETE", "/admin/media/5", "", adminHeaders(t))
	if diff := cmp.Diff(404, w.Code); diff != "" {
		t.Fatal(diff)
	}
}

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tienisto/pub-dev/internal/services/spotlight"
	"github.com/Tienisto/pub-dev/internal/services/spotlight/storage"
)

type memoryStore struct {
	videos []storage.Video
	events []storage.AuditEvent
}

func (s *memoryStore) ReplaceVideos(ctx context.Context, videos []storage.Video) error {
	s.videos = videos
	return nil
}

func (s *memoryStore) ListVideos(ctx context.Context) ([]storage.Video, error) {
	return s.videos, nil
}

func (s *memoryStore) Close() error { return nil }

func (s *memoryStore) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	s.events = append(s.events, evt)
	return nil
}

func (s *memoryStore) ListAuditEvents(ctx context.Context, limit int) ([]storage.AuditEvent, error) {
	return s.events, nil
}

func newTestHandler(t *testing.T, store *memoryStore) http.Handler {
	t.Helper()
	return NewHandler(spotlight.NewService(store), store)
}

func seedPool(store *memoryStore, keys ...string) {
	videos := make([]storage.Video, 0, len(keys))
	for i, key := range keys {
		videos = append(videos, storage.Video{
			Key:      key,
			URL:      "https://youtube.com/watch?v=" + key,
			Title:    "Video " + key,
			Position: i,
		})
	}
	store.videos = videos
}

func decodeVideos(t *testing.T, body string) []string {
	t.Helper()
	var response struct {
		Videos []struct {
			Key string `json:"key"`
		} `json:"videos"`
	}
	if err := json.Unmarshal([]byte(body), &response); err != nil {
		t.Fatalf("decode videos response: %v", err)
	}
	keys := make([]string, 0, len(response.Videos))
	for _, video := range response.Videos {
		keys = append(keys, video.Key)
	}
	return keys
}

func TestHandleHealth(t *testing.T) {
	handler := newTestHandler(t, &memoryStore{})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if !strings.Contains(recorder.Body.String(), `"ok"`) {
		t.Fatalf("body = %q, want ok status", recorder.Body.String())
	}
}

func TestHandleFeaturedReturnsLeadFirst(t *testing.T) {
	store := &memoryStore{}
	seedPool(store, "v1", "v2", "v3", "v4", "v5", "v6")
	handler := newTestHandler(t, store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/videos/featured?count=4", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", recorder.Code, http.StatusOK, recorder.Body.String())
	}
	keys := decodeVideos(t, recorder.Body.String())
	if len(keys) != 4 {
		t.Fatalf("expected 4 videos, got %d", len(keys))
	}
	if keys[0] != "v1" {
		t.Fatalf("keys[0] = %q, want the pool lead", keys[0])
	}
	seen := map[string]bool{}
	for _, key := range keys {
		if seen[key] {
			t.Fatalf("duplicate key %q in selection", key)
		}
		seen[key] = true
	}
}

func TestHandleFeaturedEmptyPool(t *testing.T) {
	handler := newTestHandler(t, &memoryStore{})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/videos/featured", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if keys := decodeVideos(t, recorder.Body.String()); len(keys) != 0 {
		t.Fatalf("expected no videos, got %v", keys)
	}
}

func TestHandleFeaturedRejectsBadCount(t *testing.T) {
	store := &memoryStore{}
	seedPool(store, "v1", "v2")
	handler := newTestHandler(t, store)

	for _, raw := range []string{"abc", "0", "-3", "51"} {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/videos/featured?count="+raw, nil))

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("count=%s: status = %d, want %d", raw, recorder.Code, http.StatusBadRequest)
		}
		if !strings.Contains(recorder.Body.String(), "invalid_input") {
			t.Fatalf("count=%s: body = %q, want invalid_input kind", raw, recorder.Body.String())
		}
	}
}

func TestHandleReplaceVideosRoundTrip(t *testing.T) {
	store := &memoryStore{}
	handler := newTestHandler(t, store)

	body := `{"videos":[
		{"key":"new-1","url":"https://youtube.com/watch?v=new-1","title":"Package of the Week 1"},
		{"key":"new-2","url":"https://youtube.com/watch?v=new-2","title":"Package of the Week 2"}
	]}`
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/api/admin/videos", strings.NewReader(body)))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d: %s", recorder.Code, http.StatusNoContent, recorder.Body.String())
	}

	listRecorder := httptest.NewRecorder()
	handler.ServeHTTP(listRecorder, httptest.NewRequest(http.MethodGet, "/api/admin/videos", nil))
	keys := decodeVideos(t, listRecorder.Body.String())
	if len(keys) != 2 || keys[0] != "new-1" || keys[1] != "new-2" {
		t.Fatalf("stored pool = %v, want [new-1 new-2]", keys)
	}

	// The featured view must respect the new pool immediately.
	featuredRecorder := httptest.NewRecorder()
	handler.ServeHTTP(featuredRecorder, httptest.NewRequest(http.MethodGet, "/api/videos/featured?count=1", nil))
	featured := decodeVideos(t, featuredRecorder.Body.String())
	if len(featured) != 1 || featured[0] != "new-1" {
		t.Fatalf("featured after replace = %v, want [new-1]", featured)
	}
}

func TestHandleReplaceVideosRejectsMalformedBody(t *testing.T) {
	handler := newTestHandler(t, &memoryStore{})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/api/admin/videos", strings.NewReader("not-json")))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
}

func TestHandleReplaceVideosRejectsInvalidRecord(t *testing.T) {
	handler := newTestHandler(t, &memoryStore{})

	body := `{"videos":[{"key":"","url":"https://example.com","title":"No Key"}]}`
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/api/admin/videos", strings.NewReader(body)))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
	if !strings.Contains(recorder.Body.String(), "key is required") {
		t.Fatalf("body = %q, want key validation message", recorder.Body.String())
	}
}

func TestRequestsAreAudited(t *testing.T) {
	store := &memoryStore{}
	seedPool(store, "v1")
	handler := newTestHandler(t, store)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/videos/featured", nil))

	if len(store.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(store.events))
	}
	evt := store.events[0]
	if evt.EventName != "http_read" {
		t.Fatalf("event name = %q, want http_read", evt.EventName)
	}
	if evt.Path != "/api/videos/featured" {
		t.Fatalf("event path = %q", evt.Path)
	}
	if evt.StatusCode != http.StatusOK {
		t.Fatalf("event status = %d, want %d", evt.StatusCode, http.StatusOK)
	}
}

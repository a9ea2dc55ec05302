package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth(t *testing.T) {
	r := NewRouter(t.TempDir())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", w.Code)
	}
}

func TestChatMissingSong(t *testing.T) {
	r := NewRouter(t.TempDir())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", nil)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("POST /api/chat with no body = %d, want 400", w.Code)
	}
}

func TestChatUnknownSong(t *testing.T) {
	body, _ := json.Marshal(map[string]any{"song": "nonexistent"})
	r := NewRouter(t.TempDir())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /api/chat for a missing song = %d, want 422; body: %s", w.Code, w.Body)
	}
}

func TestPerformanceStreamNoSession(t *testing.T) {
	r := NewRouter(t.TempDir())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/performance/nocture/stream", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("GET stream with no session = %d, want 404", w.Code)
	}
}

func TestHistoryListEmpty(t *testing.T) {
	r := NewRouter(t.TempDir())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/history", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/history = %d, want 200", w.Code)
	}
	if string(w.Body.Bytes()) == "" {
		t.Fatal("expected a JSON body, got empty")
	}
}

func TestHistoryGetMissingID(t *testing.T) {
	r := NewRouter(t.TempDir())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/history/999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("GET /api/history/999 = %d, want 404", w.Code)
	}
}

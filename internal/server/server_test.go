package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_Status(t *testing.T) {
	dispatcher := control.NewDispatcher("http://192.168.1.50/command", time.Second, 8)
	dispatcher.SetEnabled(true)

	s := New(Config{Dispatcher: dispatcher})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["dispatch_enabled"] != true {
		t.Errorf("expected dispatch_enabled true, got %v", response["dispatch_enabled"])
	}

	if response["endpoint"] != "http://192.168.1.50/command" {
		t.Errorf("expected endpoint in response, got %v", response["endpoint"])
	}
}

func TestServer_Events(t *testing.T) {
	st := newTestStore(t)

	if err := st.Events().Record(&store.Event{
		ID:        "ev-1",
		Gesture:   "Thumbs Up",
		Command:   "power_on",
		Status:    "ok",
		Timestamp: 1700000000.123,
	}); err != nil {
		t.Fatalf("failed to record event: %v", err)
	}

	s := New(Config{Store: st})

	t.Run("returns recorded events", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response struct {
			Events []*store.Event `json:"events"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if len(response.Events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(response.Events))
		}
		if response.Events[0].Command != "power_on" || response.Events[0].Status != "ok" {
			t.Errorf("unexpected event %+v", response.Events[0])
		}
	})

	t.Run("rejects invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events?limit=banana", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestServer_Control(t *testing.T) {
	st := newTestStore(t)
	dispatcher := control.NewDispatcher("http://192.168.1.50/command", time.Second, 8)
	dispatcher.SetEnabled(true)

	s := New(Config{Store: st, Dispatcher: dispatcher})

	t.Run("disables dispatch and persists the state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/control", strings.NewReader(`{"enabled": false}`))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		if dispatcher.IsEnabled() {
			t.Error("dispatcher should be disabled")
		}

		value, err := st.Settings().Get("dispatch_enabled")
		if err != nil {
			t.Fatalf("setting was not persisted: %v", err)
		}
		if value != "false" {
			t.Errorf("persisted value = %q, want %q", value, "false")
		}
	})

	t.Run("reports current state on GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/control", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		var response struct {
			Enabled  bool   `json:"enabled"`
			Endpoint string `json:"endpoint"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response.Enabled {
			t.Error("expected enabled false after disable")
		}
		if response.Endpoint != "http://192.168.1.50/command" {
			t.Errorf("unexpected endpoint %q", response.Endpoint)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/control", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestServer_Control_LeavesDetectionRunning(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	dispatcher := control.NewDispatcher("http://192.168.1.50/command", time.Second, 8)
	dispatcher.SetEnabled(true)

	a := app.New(app.Config{
		MotionThresh: 1.0,
		Detector:     detector.DefaultConfig(),
		Dispatcher:   dispatcher,
	})
	a.SetEnabled(true)

	s := New(Config{App: a, Dispatcher: dispatcher})

	req := httptest.NewRequest(http.MethodPost, "/api/control", strings.NewReader(`{"enabled": false}`))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	// The switch gates dispatch only: detection and the preview keep
	// running while dispatch is disabled.
	if dispatcher.IsEnabled() {
		t.Error("dispatcher should be disabled")
	}
	if !a.IsEnabled() {
		t.Error("detection was paused by the dispatch switch")
	}
}

func TestServer_Probe(t *testing.T) {
	t.Run("reports reachable endpoint", func(t *testing.T) {
		device := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer device.Close()

		dispatcher := control.NewDispatcher(device.URL, time.Second, 8)
		s := New(Config{Dispatcher: dispatcher})

		req := httptest.NewRequest(http.MethodPost, "/api/probe", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		var response struct {
			Reachable bool `json:"reachable"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !response.Reachable {
			t.Error("expected endpoint to be reachable")
		}
	})

	t.Run("reports unreachable endpoint", func(t *testing.T) {
		dispatcher := control.NewDispatcher("http://127.0.0.1:1/command", 200*time.Millisecond, 8)
		s := New(Config{Dispatcher: dispatcher})

		req := httptest.NewRequest(http.MethodPost, "/api/probe", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		var response struct {
			Reachable bool   `json:"reachable"`
			Error     string `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Reachable {
			t.Error("expected endpoint to be unreachable")
		}
		if response.Error == "" {
			t.Error("expected an error message")
		}
	})
}

func TestServer_Command(t *testing.T) {
	var received string
	device := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Command string `json:"command"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		received = body.Command
		w.WriteHeader(http.StatusOK)
	}))
	defer device.Close()

	dispatcher := control.NewDispatcher(device.URL, time.Second, 8)
	s := New(Config{Dispatcher: dispatcher})

	t.Run("forwards the command", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/command", strings.NewReader(`{"command": "brightness_up"}`))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		if received != "brightness_up" {
			t.Errorf("device received %q, want %q", received, "brightness_up")
		}
	})

	t.Run("rejects empty command", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/command", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestNew(t *testing.T) {
	t.Run("creates server with config", func(t *testing.T) {
		cfg := Config{StaticDir: "/some/path"}
		s := New(cfg)

		if s == nil {
			t.Fatal("expected non-nil server")
		}

		if s.config.StaticDir != cfg.StaticDir {
			t.Errorf("expected StaticDir %s, got %s", cfg.StaticDir, s.config.StaticDir)
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})
}

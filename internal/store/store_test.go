package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEventRepository_RecordAndList(t *testing.T) {
	s := newTestStore(t)
	events := s.Events()

	for i, id := range []string{"a", "b", "c"} {
		err := events.Record(&Event{
			ID:        id,
			Gesture:   "Thumbs Up",
			Command:   "power_on",
			Status:    "ok",
			Timestamp: 1700000000.0 + float64(i),
		})
		if err != nil {
			t.Fatalf("Record(%s) error = %v", id, err)
		}
	}

	got, err := events.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListRecent() returned %d events, want 3", len(got))
	}

	// Newest first
	if got[0].ID != "c" {
		t.Errorf("first event ID = %q, want %q", got[0].ID, "c")
	}
	if got[0].Command != "power_on" || got[0].Status != "ok" {
		t.Errorf("event = %+v", got[0])
	}
}

func TestEventRepository_ListRecentLimit(t *testing.T) {
	s := newTestStore(t)
	events := s.Events()

	for i := 0; i < 5; i++ {
		events.Record(&Event{
			ID:        string(rune('a' + i)),
			Gesture:   "Fist",
			Command:   "power_off",
			Status:    "rejected",
			Timestamp: float64(i),
		})
	}

	got, err := events.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListRecent(2) returned %d events", len(got))
	}
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if _, err := settings.Get("control.enabled"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on missing key error = %v, want ErrNotFound", err)
	}

	if err := settings.Set("control.enabled", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := settings.Set("control.enabled", "false"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	value, err := settings.Get("control.enabled")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "false" {
		t.Errorf("Get() = %q, want %q", value, "false")
	}
}

func TestRecorder_ReportDispatch(t *testing.T) {
	s := newTestStore(t)
	recorder := NewRecorder(s)

	var notified []Event
	recorder.Subscribe(func(e Event) {
		notified = append(notified, e)
	})

	ev := control.Event{
		ID:      "ev-1",
		Gesture: gesture.PeaceSign,
		Command: "volume_up",
		Time:    time.UnixMilli(1700000000500),
	}
	recorder.ReportDispatch(ev, control.StatusTimeout, "deadline exceeded")

	got, err := s.Events().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("recorded %d events, want 1", len(got))
	}
	if got[0].Status != string(control.StatusTimeout) {
		t.Errorf("status = %q, want %q", got[0].Status, control.StatusTimeout)
	}
	if got[0].Timestamp != 1700000000.5 {
		t.Errorf("timestamp = %f, want 1700000000.5", got[0].Timestamp)
	}

	if len(notified) != 1 || notified[0].ID != "ev-1" {
		t.Errorf("subscriber notifications = %+v", notified)
	}
}

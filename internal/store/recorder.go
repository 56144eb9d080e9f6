package store

import (
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/control"
)

// Recorder persists dispatch outcomes and fans them out to subscribers
// (the live event feed). It implements control.Reporter; dispatch
// reporting must never fail the pipeline, so storage errors are logged
// and swallowed.
type Recorder struct {
	events    *EventRepository
	mu        sync.RWMutex
	listeners []func(Event)
}

// NewRecorder creates a Recorder writing to the given store.
func NewRecorder(s *Store) *Recorder {
	return &Recorder{events: s.Events()}
}

// Subscribe registers a callback invoked for every recorded outcome.
// Callbacks run on the dispatcher worker and must not block.
func (r *Recorder) Subscribe(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// ReportDispatch records one delivery outcome.
func (r *Recorder) ReportDispatch(ev control.Event, status control.Status, detail string) {
	e := Event{
		ID:        ev.ID,
		Gesture:   string(ev.Gesture),
		Command:   ev.Command,
		Status:    string(status),
		Detail:    detail,
		Timestamp: ev.Timestamp(),
	}

	if err := r.events.Record(&e); err != nil {
		log.Printf("Failed to record dispatch event: %v", err)
	}

	r.mu.RLock()
	listeners := r.listeners
	r.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

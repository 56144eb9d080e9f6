// Package control turns classified gestures into commands and delivers
// them to the configured device endpoint.
package control

import (
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/google/uuid"
)

// Event is one command resolved from a recognized gesture. Events are
// immutable once created; they are only ever exchanged by value.
type Event struct {
	ID      string
	Gesture gesture.Label
	Command string
	Time    time.Time
}

// NewEvent creates an Event for the given gesture and command, stamped
// with the current time.
func NewEvent(label gesture.Label, command string) Event {
	return Event{
		ID:      uuid.NewString(),
		Gesture: label,
		Command: command,
		Time:    time.Now(),
	}
}

// Timestamp returns the event time as unix seconds with millisecond
// fraction, the representation used on the wire.
func (e Event) Timestamp() float64 {
	return float64(e.Time.UnixMilli()) / 1000.0
}

// Mapping is the configured gesture-to-command table. Gestures absent
// from the mapping produce no command; that is expected, silent behavior.
type Mapping map[gesture.Label]string

// Command looks up the command string for a gesture label.
func (m Mapping) Command(label gesture.Label) (string, bool) {
	cmd, ok := m[label]
	return cmd, ok
}

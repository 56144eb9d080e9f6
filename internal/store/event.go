package store

import (
	"database/sql"
	"time"
)

// Event represents one attempted command dispatch recorded in the log.
type Event struct {
	ID        string  `json:"id"`
	Gesture   string  `json:"gesture"`
	Command   string  `json:"command"`
	Status    string  `json:"status"`
	Detail    string  `json:"detail,omitempty"`
	Timestamp float64 `json:"timestamp"` // unix seconds with millisecond fraction
	CreatedAt time.Time
}

// EventRepository provides access to the dispatch log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts a dispatch outcome into the log.
func (r *EventRepository) Record(e *Event) error {
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO events (id, gesture, command, status, detail, timestamp, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Gesture, e.Command, e.Status, e.Detail, e.Timestamp, e.CreatedAt,
	)
	return err
}

// ListRecent retrieves the most recent events, newest first.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, gesture, command, status, detail, timestamp, created_at
		 FROM events ORDER BY created_at DESC, timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Gesture, &e.Command, &e.Status, &e.Detail, &e.Timestamp, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

package store

import (
	"database/sql"
	"time"
)

// Event is a persisted gesture event.
type Event struct {
	ID        int64
	SessionID string
	Kind      string
	Timestamp float64
	BPM       float64
	Playing   *bool
	Hand      string
	CreatedAt time.Time
}

// EventRepository provides access to events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts an event and sets its ID.
func (r *EventRepository) Create(e *Event) error {
	e.CreatedAt = time.Now()

	var bpm sql.NullFloat64
	if e.BPM != 0 {
		bpm = sql.NullFloat64{Float64: e.BPM, Valid: true}
	}
	var playing sql.NullBool
	if e.Playing != nil {
		playing = sql.NullBool{Bool: *e.Playing, Valid: true}
	}

	result, err := r.db.Exec(
		`INSERT INTO events (session_id, kind, timestamp, bpm, playing, hand, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Kind, e.Timestamp, bpm, playing, e.Hand, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// ListBySession retrieves a session's events in emission order. A positive
// limit keeps only the newest limit events.
func (r *EventRepository) ListBySession(sessionID string, limit int) ([]*Event, error) {
	query := `SELECT id, session_id, kind, timestamp, bpm, playing, hand, created_at
		FROM events WHERE session_id = ? ORDER BY id`
	args := []any{sessionID}
	if limit > 0 {
		query = `SELECT * FROM (
			SELECT id, session_id, kind, timestamp, bpm, playing, hand, created_at
			FROM events WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var bpm sql.NullFloat64
		var playing sql.NullBool
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Timestamp, &bpm, &playing, &e.Hand, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.BPM = bpm.Float64
		if playing.Valid {
			p := playing.Bool
			e.Playing = &p
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountByKind returns how many events of each kind a session produced.
func (r *EventRepository) CountByKind(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM events WHERE session_id = ? GROUP BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}

	return counts, rows.Err()
}

package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is one run of the gesture engine.
type Session struct {
	ID        string
	Mode      string
	StartedAt time.Time
	EndedAt   *time.Time
}

// SessionRepository provides access to sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session. StartedAt defaults to now.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, mode, started_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Mode, sess.StartedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, mode, started_at, ended_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Mode, &sess.StartedAt, &ended)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	return sess, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, mode, started_at, ended_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var ended sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.Mode, &sess.StartedAt, &ended); err != nil {
			return nil, err
		}
		if ended.Valid {
			sess.EndedAt = &ended.Time
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// SetMode records a mode switch on a running session.
func (r *SessionRepository) SetMode(id, mode string) error {
	return r.expectOne(r.db.Exec(`UPDATE sessions SET mode = ? WHERE id = ?`, mode, id))
}

// End marks a session as finished at time t.
func (r *SessionRepository) End(id string, t time.Time) error {
	return r.expectOne(r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, t, id))
}

// Delete removes a session and, through the foreign key, its events.
func (r *SessionRepository) Delete(id string) error {
	return r.expectOne(r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id))
}

func (r *SessionRepository) expectOne(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Action binds an event kind to a plugin action.
type Action struct {
	ID         string
	EventKind  string
	PluginName string
	ActionName string
	Config     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
}

// ActionRepository provides CRUD operations for actions.
type ActionRepository struct {
	db *sql.DB
}

// Actions returns the action repository for this store.
func (s *Store) Actions() *ActionRepository {
	return &ActionRepository{db: s.db}
}

const actionColumns = `id, event_kind, plugin_name, action_name, config, enabled, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(row rowScanner) (*Action, error) {
	a := &Action{}
	var config string
	var enabled int
	if err := row.Scan(&a.ID, &a.EventKind, &a.PluginName, &a.ActionName, &config, &enabled, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Config = json.RawMessage(config)
	a.Enabled = enabled != 0
	return a, nil
}

func configOrEmpty(config json.RawMessage) string {
	if len(config) == 0 {
		return "{}"
	}
	return string(config)
}

// Create inserts a new action.
func (r *ActionRepository) Create(a *Action) error {
	a.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO actions (`+actionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.EventKind, a.PluginName, a.ActionName, configOrEmpty(a.Config), a.Enabled, a.CreatedAt,
	)
	return err
}

// GetByID retrieves an action by its ID.
func (r *ActionRepository) GetByID(id string) (*Action, error) {
	a, err := scanAction(r.db.QueryRow(`SELECT `+actionColumns+` FROM actions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByEventKind retrieves the enabled actions bound to an event kind,
// oldest binding first. An unbound kind yields an empty slice.
func (r *ActionRepository) ListByEventKind(kind string) ([]*Action, error) {
	return r.query(
		`SELECT `+actionColumns+` FROM actions WHERE event_kind = ? AND enabled = 1 ORDER BY created_at`,
		kind,
	)
}

// List retrieves all actions, newest first.
func (r *ActionRepository) List() ([]*Action, error) {
	return r.query(`SELECT ` + actionColumns + ` FROM actions ORDER BY created_at DESC`)
}

func (r *ActionRepository) query(q string, args ...any) ([]*Action, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}

	return actions, rows.Err()
}

// Update updates an existing action.
func (r *ActionRepository) Update(a *Action) error {
	enabled := 0
	if a.Enabled {
		enabled = 1
	}

	result, err := r.db.Exec(
		`UPDATE actions SET event_kind = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		a.EventKind, a.PluginName, a.ActionName, configOrEmpty(a.Config), enabled, a.ID,
	)
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

// Delete removes an action by its ID.
func (r *ActionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM actions WHERE id = ?`, id)
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

// Package persistence provides the SQLite audit store for simulation runs and
// compressed JSONL exports of finished worlds.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/world"
)

// DB wraps a SQLite connection holding the audit trail of one or more runs.
type DB struct {
	conn *sqlx.DB
}

// Run identifies one simulated world in the store.
type Run struct {
	ID   uuid.UUID
	Seed uint64
}

// EventRow is a stored narrative event.
type EventRow struct {
	EventID     uint64 `db:"event_id"`
	Year        uint32 `db:"year"`
	Month       uint32 `db:"month"`
	Kind        string `db:"kind"`
	Description string `db:"description"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Concurrent runs share the file; one writer at a time.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		start_year INTEGER NOT NULL,
		end_year INTEGER,
		end_month INTEGER,
		started_at TEXT NOT NULL,
		finished_at TEXT
	);

	CREATE TABLE IF NOT EXISTS events (
		run_id TEXT NOT NULL,
		event_id INTEGER NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		kind TEXT NOT NULL,
		description TEXT NOT NULL,
		caused_by INTEGER,
		participants_json TEXT NOT NULL,
		data_json TEXT,
		PRIMARY KEY (run_id, event_id)
	);

	CREATE TABLE IF NOT EXISTS changes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		entity_id INTEGER NOT NULL,
		event_id INTEGER NOT NULL,
		field TEXT NOT NULL,
		old_json TEXT,
		new_json TEXT
	);

	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		event_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		delivered INTEGER NOT NULL,
		payload_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_time ON events(run_id, year, month);
	CREATE INDEX IF NOT EXISTS idx_changes_entity ON changes(run_id, entity_id);
	CREATE INDEX IF NOT EXISTS idx_signals_run ON signals(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun registers a new run and returns its ID.
func (db *DB) StartRun(seed uint64, start world.Timestamp) (Run, error) {
	run := Run{ID: uuid.New(), Seed: seed}
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, seed, start_year, started_at) VALUES (?, ?, ?, ?)",
		run.ID.String(), int64(seed), start.Year, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run %d: %w", seed, err)
	}
	return run, nil
}

// RecordTick appends a tick's events and signals.
func (db *DB) RecordTick(run Run, r engine.TickReport) error {
	if len(r.Events) == 0 && len(r.Signals) == 0 && len(r.Deferred) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := run.ID.String()
	for _, ev := range r.Events {
		parts, err := json.Marshal(ev.Participants)
		if err != nil {
			return fmt.Errorf("encode event %d participants: %w", ev.ID, err)
		}
		var data *string
		if ev.Data != nil {
			b, err := json.Marshal(ev.Data)
			if err != nil {
				return fmt.Errorf("encode event %d data: %w", ev.ID, err)
			}
			s := string(b)
			data = &s
		}
		_, err = tx.Exec(`INSERT INTO events
			(run_id, event_id, year, month, kind, description, caused_by, participants_json, data_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, ev.ID, ev.Time.Year, ev.Time.Month, string(ev.Kind), ev.Description,
			ev.CausedBy, string(parts), data,
		)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", ev.ID, err)
		}
	}

	if err := insertSignals(tx, id, r.Time, r.Signals, 1); err != nil {
		return err
	}
	if err := insertSignals(tx, id, r.Time, r.Deferred, 0); err != nil {
		return err
	}

	return tx.Commit()
}

func insertSignals(tx *sqlx.Tx, run string, t world.Timestamp, signals []engine.Signal, delivered int) error {
	for _, s := range signals {
		payload, err := json.Marshal(s.Payload)
		if err != nil {
			return fmt.Errorf("encode signal: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO signals
			(run_id, year, month, event_id, kind, delivered, payload_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run, t.Year, t.Month, s.EventID, engine.SignalKind(s.Payload), delivered, string(payload),
		)
		if err != nil {
			return fmt.Errorf("insert signal: %w", err)
		}
	}
	return nil
}

// SaveChanges writes the world's field-change audit trail for a run.
func (db *DB) SaveChanges(run Run, changes []world.Change) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO changes
		(run_id, entity_id, event_id, field, old_json, new_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	id := run.ID.String()
	for _, c := range changes {
		oldJSON, err := json.Marshal(c.Old)
		if err != nil {
			return fmt.Errorf("encode %s change for %d: %w", c.Field, c.Entity, err)
		}
		newJSON, err := json.Marshal(c.New)
		if err != nil {
			return fmt.Errorf("encode %s change for %d: %w", c.Field, c.Entity, err)
		}
		if _, err := stmt.Exec(id, c.Entity, c.Event, c.Field, string(oldJSON), string(newJSON)); err != nil {
			return fmt.Errorf("insert change for %d: %w", c.Entity, err)
		}
	}

	return tx.Commit()
}

// FinishRun stores the change trail and marks the run complete at the
// world's current time.
func (db *DB) FinishRun(run Run, w *world.World) error {
	slog.Info("saving run", "run", run.ID, "events", len(w.Events()), "changes", len(w.Changes()))

	if err := db.SaveChanges(run, w.Changes()); err != nil {
		return fmt.Errorf("save changes: %w", err)
	}
	_, err := db.conn.Exec(
		"UPDATE runs SET end_year = ?, end_month = ?, finished_at = ? WHERE id = ?",
		w.Now.Year, w.Now.Month, time.Now().UTC().Format(time.RFC3339), run.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// SaveMeta stores a key-value pair in store metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// EventKinds returns "time kind" for every stored event of a run, in order,
// in the same form as world.World.EventKinds.
func (db *DB) EventKinds(run Run) ([]string, error) {
	var rows []EventRow
	err := db.conn.Select(&rows,
		"SELECT event_id, year, month, kind, description FROM events WHERE run_id = ? ORDER BY event_id",
		run.ID.String(),
	)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = world.Timestamp{Year: r.Year, Month: r.Month}.String() + " " + r.Kind
	}
	return out, nil
}

// RecentEvents returns the most recent N events of a run.
func (db *DB) RecentEvents(run Run, limit int) ([]EventRow, error) {
	var events []EventRow
	err := db.conn.Select(&events,
		"SELECT event_id, year, month, kind, description FROM events WHERE run_id = ? ORDER BY event_id DESC LIMIT ?",
		run.ID.String(), limit,
	)
	return events, err
}

// SignalCount returns how many signals of a run were stored, split by
// whether they were delivered.
func (db *DB) SignalCount(run Run) (delivered, deferred int, err error) {
	err = db.conn.QueryRowx(
		"SELECT COALESCE(SUM(delivered), 0), COALESCE(SUM(1 - delivered), 0) FROM signals WHERE run_id = ?",
		run.ID.String(),
	).Scan(&delivered, &deferred)
	return delivered, deferred, err
}

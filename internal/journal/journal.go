// Package journal persists engine activity to SQLite: every value update
// and maintenance sweep the host drove, and every decision the engine
// committed. The record is enough to re-drive the engine deterministically,
// which is what Replay does.
//
// The journal is host-side plumbing. The engine has no dependency on it;
// the run command wires the two together.
package journal

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Event kinds recorded in the events table.
const (
	KindUpdate = "update"
	KindSweep  = "sweep"
)

// Event is one recorded host input: a value-update payload or a sweep.
type Event struct {
	Seq     int64
	PassID  string
	Kind    string
	At      time.Time
	Payload []byte
}

// DecisionRecord is one committed decision.
type DecisionRecord struct {
	Seq      int64
	PassID   string
	DeviceID int
	Value    bool
	Path     string
	At       time.Time
}

// Journal is an append-only SQLite log. Safe for a single writer, which is
// all the synchronous engine produces.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at path, applying WAL mode and
// the embedded schema. Idempotent.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under the host's update/sweep interleaving.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// AppendEvent records one host input in arrival order.
func (j *Journal) AppendEvent(passID, kind string, at time.Time, payload []byte) error {
	_, err := j.db.Exec(
		`INSERT INTO events (pass_id, kind, at_unix_ms, payload) VALUES (?, ?, ?, ?)`,
		passID, kind, at.UnixMilli(), payload)
	if err != nil {
		return fmt.Errorf("append %s event: %w", kind, err)
	}
	return nil
}

// AppendDecision records one committed decision.
func (j *Journal) AppendDecision(passID string, deviceID int, value bool, path string, at time.Time) error {
	v := 0
	if value {
		v = 1
	}
	_, err := j.db.Exec(
		`INSERT INTO decisions (pass_id, device_id, value, path, at_unix_ms) VALUES (?, ?, ?, ?, ?)`,
		passID, deviceID, v, path, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("append decision: %w", err)
	}
	return nil
}

// Events returns all recorded events in arrival (seq) order.
func (j *Journal) Events() ([]Event, error) {
	rows, err := j.db.Query(
		`SELECT seq, pass_id, kind, at_unix_ms, payload FROM events ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e  Event
			ms int64
		)
		if err := rows.Scan(&e.Seq, &e.PassID, &e.Kind, &ms, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.At = time.UnixMilli(ms).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// Decisions returns all recorded decisions in commit (seq) order.
func (j *Journal) Decisions() ([]DecisionRecord, error) {
	rows, err := j.db.Query(
		`SELECT seq, pass_id, device_id, value, path, at_unix_ms FROM decisions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("read decisions: %w", err)
	}
	defer rows.Close()

	var decisions []DecisionRecord
	for rows.Next() {
		var (
			d  DecisionRecord
			v  int
			ms int64
		)
		if err := rows.Scan(&d.Seq, &d.PassID, &d.DeviceID, &v, &d.Path, &ms); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		d.Value = v != 0
		d.At = time.UnixMilli(ms).UTC()
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

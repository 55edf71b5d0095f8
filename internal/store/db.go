package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justyntemme/mark/internal/debug"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type EventType int

const (
	FetchRecents EventType = iota
	AddRecents
	FetchSettings
	SaveSetting
)

type Request struct {
	Op    EventType
	Paths []string // For AddRecents, in open order
	Key   string
	Value string
}

type Response struct {
	Op       EventType
	Recents  []string          // Most recent first
	Settings map[string]string // Key-value settings
	Err      error
}

type DB struct {
	conn         *sql.DB
	maxRecents   int
	RequestChan  chan Request
	ResponseChan chan Response
}

func NewDB(maxRecents int) *DB {
	if maxRecents <= 0 {
		maxRecents = 20
	}
	return &DB{
		maxRecents:   maxRecents,
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
	}
}

// Open initializes the database connection and schema
func (d *DB) Open(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS recents (
		path TEXT PRIMARY KEY,
		opened_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	d.conn = db
	debug.Log(debug.STORE, "opened %s", dbPath)
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// Start serves requests until RequestChan is closed
func (d *DB) Start() {
	for req := range d.RequestChan {
		if d.conn == nil {
			d.ResponseChan <- Response{Op: req.Op, Err: fmt.Errorf("store not open")}
			continue
		}
		switch req.Op {
		case FetchRecents:
			d.ResponseChan <- d.recents()
		case AddRecents:
			if err := d.addRecents(req.Paths); err != nil {
				debug.Log(debug.STORE, "add recents: %v", err)
			}
			// Always trigger a fetch after modification to sync UI
			d.ResponseChan <- d.recents()
		case FetchSettings:
			d.ResponseChan <- d.settings()
		case SaveSetting:
			if err := d.saveSetting(req.Key, req.Value); err != nil {
				d.ResponseChan <- Response{Op: SaveSetting, Err: err}
			}
		}
	}
}

func (d *DB) recents() Response {
	rows, err := d.conn.Query("SELECT path FROM recents ORDER BY opened_at DESC, rowid DESC LIMIT ?", d.maxRecents)
	if err != nil {
		return Response{Op: FetchRecents, Err: err}
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err == nil {
			paths = append(paths, path)
		}
	}
	return Response{Op: FetchRecents, Recents: paths, Err: rows.Err()}
}

// addRecents records paths so that the last one is the most recent. A path
// opened again moves to the front.
func (d *DB) addRecents(paths []string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRow("SELECT COALESCE(MAX(opened_at), 0) FROM recents").Scan(&next); err != nil {
		return err
	}
	for _, p := range paths {
		next++
		if _, err := tx.Exec(
			"INSERT INTO recents (path, opened_at) VALUES (?, ?) ON CONFLICT(path) DO UPDATE SET opened_at = excluded.opened_at",
			p, next,
		); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		"DELETE FROM recents WHERE path NOT IN (SELECT path FROM recents ORDER BY opened_at DESC LIMIT ?)",
		d.maxRecents,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) settings() Response {
	rows, err := d.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return Response{Op: FetchSettings, Err: err}
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err == nil {
			settings[key] = value
		}
	}
	return Response{Op: FetchSettings, Settings: settings, Err: rows.Err()}
}

func (d *DB) saveSetting(key, value string) error {
	_, err := d.conn.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}

package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/pumped-fn/etp-sizing/pkg/model"
)

// ErrNotFound is returned by Load when no snapshot matches.
var ErrNotFound = errors.New("snapshot not found")

// Entry describes one stored snapshot.
type Entry struct {
	SessionID string
	Version   uint64
	TakenAt   time.Time
}

// SQLiteStore keeps every exported snapshot as a JSON payload, one row per
// session and version. Exporting the same version twice replaces the row.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// OpenSQLite opens or creates the store at path. ":memory:" gives a private
// in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "etp-sizing.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		session_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		taken_at TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (session_id, version)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Export stores snap.
func (s *SQLiteStore) Export(ctx context.Context, snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots(session_id,version,taken_at,payload) VALUES(?,?,?,?)
		ON CONFLICT(session_id,version) DO UPDATE SET taken_at=excluded.taken_at, payload=excluded.payload`,
		snap.SessionID, int64(snap.Version), snap.TakenAt.UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("upsert %s@%d: %w", snap.SessionID, snap.Version, err)
	}
	return nil
}

// Load returns the snapshot of a session at version, or its latest one when
// version is 0.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string, version uint64) (model.Snapshot, error) {
	query := `SELECT payload FROM snapshots WHERE session_id=? AND version=?`
	args := []any{sessionID, int64(version)}
	if version == 0 {
		query = `SELECT payload FROM snapshots WHERE session_id=? ORDER BY version DESC LIMIT 1`
		args = args[:1]
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, fmt.Errorf("%w: %s@%d", ErrNotFound, sessionID, version)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("select snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// List returns the stored snapshots of a session, oldest version first. An
// empty sessionID lists every session.
func (s *SQLiteStore) List(ctx context.Context, sessionID string) ([]Entry, error) {
	query := `SELECT session_id, version, taken_at FROM snapshots`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id=?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY session_id, version`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			version int64
			takenAt string
		)
		if err := rows.Scan(&e.SessionID, &version, &takenAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		e.Version = uint64(version)
		if e.TakenAt, err = time.Parse(time.RFC3339Nano, takenAt); err != nil {
			return nil, fmt.Errorf("parse taken_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Path returns the configured database path.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

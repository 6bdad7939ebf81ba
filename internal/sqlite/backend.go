// Package sqlite implements the document datastore behind the Store.
//
// Every record of every table lives in one SQLite table, keyed by
// namespace, database, table and key, with the record body stored as JSON
// text. Queries built by internal/query filter that body with json_extract.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/thingstore/internal/logging"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// DBFile is the database file name inside the data directory.
const DBFile = "thingstore.db"

var logger = logging.Logger("sqlite")

// Datastore is an open SQLite document store. It is safe for concurrent
// use; the single underlying connection serializes statements.
type Datastore struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the datastore selected by cfg. The sqlite
// backend stores its file under cfg.DataDir; the memory backend keeps a
// private database that disappears on Close.
func Open(cfg types.Config) (*Datastore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := ":memory:"
	path := ""
	if cfg.Backend == types.BackendSQLite {
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		path = filepath.Join(dataDir, DBFile)
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Backend, err)
	}
	// One connection: statements serialize and an in-memory database
	// survives for the life of the Datastore.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	logger.Debug("datastore opened", "backend", cfg.Backend, "path", path)
	return &Datastore{db: db, path: path}, nil
}

// Path returns the database file, or "" for an in-memory datastore.
func (d *Datastore) Path() string {
	return d.path
}

// Close releases the connection. Close is idempotent; other operations
// return ErrDatastoreClosed afterwards.
func (d *Datastore) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	logger.Debug("datastore closed", "path", d.path)
	return err
}

// conn returns the open handle. The caller must hold d.mu.
func (d *Datastore) conn() (*sql.DB, error) {
	if d.db == nil {
		return nil, ErrDatastoreClosed
	}
	return d.db, nil
}

// generateKey returns a new record key, a UUID v7 so that keys sort by
// creation time.
func generateKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

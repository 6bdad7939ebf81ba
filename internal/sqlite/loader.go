package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

const upsertRecord = `INSERT INTO records (ns, db, tb, key, content) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (ns, db, tb, key) DO UPDATE SET content = excluded.content`

// Import loads a JSONL file written by Export into the session. Each line
// must carry an id; records with the same id are replaced. Malformed lines
// and lines without a usable id are skipped. Loading is transactional: all
// accepted lines are stored or none are. It returns the number stored.
func (d *Datastore) Import(ses Session, path string) (int, error) {
	lines, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	db, err := d.conn()
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	n, err := insertRecords(tx, ses, lines)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}

	logger.Debug("records imported", "path", path, "count", n, "skipped", len(lines)-n)
	return n, nil
}

func insertRecords(tx *sql.Tx, ses Session, lines []json.RawMessage) (int, error) {
	stmt, err := tx.Prepare(upsertRecord)
	if err != nil {
		return 0, fmt.Errorf("preparing import: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, line := range lines {
		rec, err := types.DecodeObject(line)
		if err != nil {
			continue
		}
		id, err := rec.Thing()
		if err != nil {
			continue
		}
		delete(rec, types.IDField)
		raw, err := types.EncodeObject(rec)
		if err != nil {
			return n, err
		}
		if _, err := stmt.Exec(ses.Namespace, ses.Database, id.Table, id.Key, string(raw)); err != nil {
			return n, fmt.Errorf("importing %s: %w", id, err)
		}
		n++
	}
	return n, nil
}

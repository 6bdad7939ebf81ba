package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/thingstore/internal/query"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

const (
	insertRecord = `INSERT INTO records (ns, db, tb, key, content) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (ns, db, tb, key) DO NOTHING`
	selectRecord = `SELECT content FROM records WHERE ns = ? AND db = ? AND tb = ? AND key = ?`
	updateRecord = `UPDATE records SET content = ? WHERE ns = ? AND db = ? AND tb = ? AND key = ?`
	deleteRecord = `DELETE FROM records WHERE ns = ? AND db = ? AND tb = ? AND key = ?`
)

// Create stores content as a new record of table and returns the stored
// record with its id. A content id naming table fixes the key; otherwise a
// new key is generated. Creating an existing id fails with ErrRecordExists.
func (d *Datastore) Create(ses Session, table string, content types.Object) (types.Object, error) {
	if !types.ValidTableName(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	key, err := keyFor(table, content)
	if err != nil {
		return nil, err
	}

	body := content.Clone()
	delete(body, types.IDField)
	raw, err := types.EncodeObject(body)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	db, err := d.conn()
	if err != nil {
		return nil, err
	}

	id := types.NewThing(table, key)
	res, err := db.Exec(insertRecord, ses.Namespace, ses.Database, table, key, string(raw))
	if err != nil {
		return nil, fmt.Errorf("inserting %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("inserting %s: %w", id, err)
	} else if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordExists, id)
	}

	logger.Debug("record created", "id", id.String(), "ns", ses.Namespace, "db", ses.Database)
	return decodeRecord(id, raw)
}

// Select returns the record identified by id.
func (d *Datastore) Select(ses Session, id types.Thing) (types.Object, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	db, err := d.conn()
	if err != nil {
		return nil, err
	}

	var raw string
	err = db.QueryRow(selectRecord, ses.Namespace, ses.Database, id.Table, id.Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", id, err)
	}
	return decodeRecord(id, []byte(raw))
}

// Merge applies patch to the record identified by id and returns the merged
// record. Fields of patch replace stored fields; a nil value removes the
// field. The read and the write happen in one transaction.
func (d *Datastore) Merge(ses Session, id types.Thing, patch types.Object) (types.Object, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	db, err := d.conn()
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning merge of %s: %w", id, err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRow(selectRecord, ses.Namespace, ses.Database, id.Table, id.Key).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", id, err)
	}

	body, err := types.DecodeObject([]byte(current))
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		switch {
		case k == types.IDField:
		case v == nil:
			delete(body, k)
		default:
			body[k] = v
		}
	}

	raw, err := types.EncodeObject(body)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(updateRecord, string(raw), ses.Namespace, ses.Database, id.Table, id.Key); err != nil {
		return nil, fmt.Errorf("updating %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing merge of %s: %w", id, err)
	}

	logger.Debug("record merged", "id", id.String(), "fields", patch.Keys())
	return decodeRecord(id, raw)
}

// Delete removes the record identified by id.
func (d *Datastore) Delete(ses Session, id types.Thing) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	db, err := d.conn()
	if err != nil {
		return err
	}

	res, err := db.Exec(deleteRecord, ses.Namespace, ses.Database, id.Table, id.Key)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	logger.Debug("record deleted", "id", id.String())
	return nil
}

// Query runs a select built for this session and returns the matching
// records in query order. The result is empty, never nil, when nothing
// matches.
func (d *Datastore) Query(ses Session, sel query.Select) ([]types.Object, error) {
	if len(sel.Args) < 3 || sel.Args[0] != ses.Namespace || sel.Args[1] != ses.Database {
		return nil, ErrScopeMismatch
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	db, err := d.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(sel.Text, sel.Args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := make([]types.Object, 0)
	for rows.Next() {
		var tb, key, raw string
		if err := rows.Scan(&tb, &key, &raw); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec, err := decodeRecord(types.NewThing(tb, key), []byte(raw))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	logger.Debug("records queried", "table", sel.Args[2], "count", len(records))
	return records, nil
}

// keyFor returns the key content asks for, or a new one.
func keyFor(table string, content types.Object) (string, error) {
	if !content.Has(types.IDField) {
		return generateKey(), nil
	}
	id, err := content.Thing()
	if err != nil {
		return "", err
	}
	if id.Table != table {
		return "", types.NewValueNotOfTypeError(table)
	}
	return id.Key, nil
}

func decodeRecord(id types.Thing, raw []byte) (types.Object, error) {
	rec, err := types.DecodeObject(raw)
	if err != nil {
		return nil, err
	}
	rec.SetThing(id)
	return rec, nil
}

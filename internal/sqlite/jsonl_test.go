// Tests for JSONL export and import.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

func TestWriteReadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	records := []json.RawMessage{
		json.RawMessage(`{"a":1}`),
		json.RawMessage(`{"b":2}`),
	}

	require.NoError(t, writeJSONL(path, records))
	got, err := readJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestReadJSONL_SkipsMalformedAndEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := "{\"a\":1}\n\nnot json\n{\"b\":\n{\"c\":3}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := readJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, []json.RawMessage{json.RawMessage(`{"a":1}`), json.RawMessage(`{"c":3}`)}, got)
}

func TestReadJSONL_MissingFile(t *testing.T) {
	_, err := readJSONL(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportImport(t *testing.T) {
	src := setupDatastore(t)
	a := mustCreate(t, src, "user", types.Object{"name": "alice", "tags": []string{"x"}})
	b := mustCreate(t, src, "user", types.Object{"name": "bob"})
	mustCreate(t, src, "task", types.Object{"title": "ignored"})

	path := filepath.Join(t.TempDir(), "user.jsonl")
	n, err := src.Export(testSession, "user", path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"id":"`+a.String()+`"`)

	dst := setupDatastore(t)
	n, err = dst.Import(testSession, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []types.Thing{a, b} {
		want, err := src.Select(testSession, id)
		require.NoError(t, err)
		got, err := dst.Select(testSession, id)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Importing again replaces rather than duplicates.
	n, err = dst.Import(testSession, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImport_SkipsLinesWithoutID(t *testing.T) {
	d := setupDatastore(t)
	path := filepath.Join(t.TempDir(), "in.jsonl")
	content := `{"id":"user:k1","name":"alice"}` + "\n" +
		`{"name":"no id"}` + "\n" +
		`{"id":"bad","name":"bad id"}` + "\n" +
		`[1,2]` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := d.Import(testSession, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := d.Select(testSession, types.NewThing("user", "k1"))
	require.NoError(t, err)
	assert.Equal(t, "alice", got["name"])
}

package types

import (
	"fmt"
	"regexp"
	"strings"
)

// Thing identifies one persisted record by table and key. It renders as
// "table:key". The zero Thing marks an entity that has not been persisted.
type Thing struct {
	Table string
	Key   string
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewThing returns the Thing for key in table.
func NewThing(table, key string) Thing {
	return Thing{Table: table, Key: key}
}

// ParseThing parses "table:key". The key may itself contain colons; the
// table may not.
func ParseThing(s string) (Thing, error) {
	table, key, ok := strings.Cut(s, ":")
	if !ok || key == "" || !ValidTableName(table) {
		return Thing{}, NewValueNotOfTypeError("thing")
	}
	return Thing{Table: table, Key: key}, nil
}

// ValidTableName reports whether name can be used as a table name.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// IsZero reports whether t is the zero Thing.
func (t Thing) IsZero() bool {
	return t.Table == "" && t.Key == ""
}

func (t Thing) String() string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%s", t.Table, t.Key)
}

// MarshalText implements encoding.TextMarshaler.
func (t Thing) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Thing) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*t = Thing{}
		return nil
	}
	parsed, err := ParseThing(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/thingstore/pkg/model"
	"github.com/mesh-intelligence/thingstore/pkg/store"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// entityOps runs the typed store operations for one table on JSON input.
type entityOps interface {
	create(s *store.Store, data []byte) (any, error)
	get(s *store.Store, id types.Thing) (any, error)
	update(s *store.Store, id types.Thing, data []byte) (any, error)
	patch(s *store.Store, id types.Thing, data []byte) (any, error)
	list(s *store.Store, filter types.Filter, opts *types.ListOptions) (any, error)
}

type entity[T any, PT types.Creatable[T], P any, PP types.Patchable[P]] struct{}

func (entity[T, PT, P, PP]) create(s *store.Store, data []byte) (any, error) {
	var t T
	if err := decodeInput(data, &t); err != nil {
		return nil, err
	}
	return store.Create[T, PT](s, t)
}

func (entity[T, PT, P, PP]) get(s *store.Store, id types.Thing) (any, error) {
	return store.Get[T, PT](s, id)
}

func (entity[T, PT, P, PP]) update(s *store.Store, id types.Thing, data []byte) (any, error) {
	var p P
	if err := decodeInput(data, &p); err != nil {
		return nil, err
	}
	return store.Update[T, PT, P, PP](s, id, p)
}

func (entity[T, PT, P, PP]) patch(s *store.Store, id types.Thing, data []byte) (any, error) {
	var p P
	if err := decodeInput(data, &p); err != nil {
		return nil, err
	}
	return store.Patch[T, PT, P, PP](s, id, p)
}

func (entity[T, PT, P, PP]) list(s *store.Store, filter types.Filter, opts *types.ListOptions) (any, error) {
	return store.List[T, PT](s, filter, opts)
}

// entities maps table names to their operations.
var entities = map[string]entityOps{
	model.UserTable: entity[model.User, *model.User, model.UserPatch, *model.UserPatch]{},
	model.TaskTable: entity[model.Task, *model.Task, model.TaskPatch, *model.TaskPatch]{},
}

func tableNames() string {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookupEntity(table string) (entityOps, error) {
	ops, ok := entities[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q (valid: %s)", table, tableNames())
	}
	return ops, nil
}

// parseID accepts "table:key" or a bare key of table. A full id naming
// another table fails with ValueNotOfType(table).
func parseID(table, arg string) (types.Thing, error) {
	if !strings.Contains(arg, ":") {
		if arg == "" {
			return types.Thing{}, types.NewValueNotOfTypeError("thing")
		}
		return types.NewThing(table, arg), nil
	}
	id, err := types.ParseThing(arg)
	if err != nil {
		return types.Thing{}, err
	}
	if id.Table != table {
		return types.Thing{}, types.NewValueNotOfTypeError(table)
	}
	return id, nil
}

// decodeInput strictly decodes a JSON object into v.
func decodeInput(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return types.NewSerdeError(err)
	}
	return nil
}

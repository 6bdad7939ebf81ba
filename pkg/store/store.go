package store

import (
	"github.com/mesh-intelligence/thingstore/internal/logging"
	"github.com/mesh-intelligence/thingstore/internal/query"
	"github.com/mesh-intelligence/thingstore/internal/sqlite"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

var logger = logging.Logger("store")

// Store performs typed operations against one datastore session.
type Store struct {
	ds  *sqlite.Datastore
	ses sqlite.Session
}

// New returns a Store over an already open datastore.
func New(ds *sqlite.Datastore, ses sqlite.Session) *Store {
	return &Store{ds: ds, ses: ses}
}

// Open opens the datastore described by cfg and returns a Store over it.
// An invalid configuration or a datastore that cannot be opened fails with
// StoreFailToCreate; a data directory that cannot be created fails with IO.
func Open(cfg types.Config) (*Store, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, types.NewStoreFailToCreateError(err.Error())
	}

	ds, err := sqlite.Open(cfg)
	if err != nil {
		if lifted := types.Lift(err); types.IsIO(lifted) {
			return nil, lifted
		}
		return nil, types.NewStoreFailToCreateError(err.Error())
	}

	logger.Debug("store opened", "backend", cfg.Backend, "namespace", cfg.Namespace, "database", cfg.Database)
	return New(ds, sqlite.NewSession(cfg)), nil
}

// Session returns the session the Store operates in.
func (s *Store) Session() sqlite.Session {
	return s.ses
}

// Datastore returns the underlying datastore.
func (s *Store) Datastore() *sqlite.Datastore {
	return s.ds
}

// Close closes the underlying datastore.
func (s *Store) Close() error {
	return types.Lift(s.ds.Close())
}

// Create persists t as a new record of its table and returns the entity
// rebuilt from the stored record, carrying its new id.
func Create[T any, PT types.Creatable[T]](s *Store, t T) (T, error) {
	var zero T
	table := PT(&t).TableName()
	rec, err := PT(&t).ToThing()
	if err != nil {
		return zero, types.Lift(err)
	}

	created, err := s.ds.Create(s.ses, table, rec)
	if err != nil {
		return zero, types.Lift(err)
	}
	out, err := fromThing[T, PT](created)
	if err != nil {
		return zero, err
	}

	logger.Debug("created", "table", table, "id", created[types.IDField])
	return out, nil
}

// Get returns the entity stored under id. An id outside the entity's table
// fails with ValueNotOfType.
func Get[T any, PT types.Creatable[T]](s *Store, id types.Thing) (T, error) {
	var zero T
	if err := checkTable[T, PT](id); err != nil {
		return zero, err
	}

	rec, err := s.ds.Select(s.ses, id)
	if err != nil {
		return zero, types.Lift(err)
	}
	return fromThing[T, PT](rec)
}

// Update merges patch into the record stored under id and returns the full
// updated entity.
func Update[T any, PT types.Creatable[T], P any, PP types.Patchable[P]](s *Store, id types.Thing, patch P) (T, error) {
	var zero T
	if err := checkTable[T, PT](id); err != nil {
		return zero, err
	}
	rec, err := PP(&patch).ToPatch()
	if err != nil {
		return zero, types.Lift(err)
	}

	merged, err := s.ds.Merge(s.ses, id, rec)
	if err != nil {
		return zero, types.Lift(err)
	}

	logger.Debug("updated", "id", id.String(), "fields", rec.Keys())
	return fromThing[T, PT](merged)
}

// Patch merges patch into the record of T stored under id and returns the
// patch acknowledgment, rebuilt from the stored values of the patched fields
// and the id. An id from another table fails with ValueNotOfType.
func Patch[T any, PT types.Creatable[T], P any, PP types.Patchable[P]](s *Store, id types.Thing, patch P) (P, error) {
	var zero P
	if err := checkTable[T, PT](id); err != nil {
		return zero, err
	}
	rec, err := PP(&patch).ToPatch()
	if err != nil {
		return zero, types.Lift(err)
	}

	merged, err := s.ds.Merge(s.ses, id, rec)
	if err != nil {
		return zero, types.Lift(err)
	}

	ack := types.Object{}
	for k := range rec {
		if v, ok := merged[k]; ok {
			ack[k] = v
		}
	}
	ack.SetThing(id)

	var out P
	if err := PP(&out).FromPatch(ack); err != nil {
		return zero, types.Lift(err)
	}

	logger.Debug("patched", "id", id.String(), "fields", rec.Keys())
	return out, nil
}

// Delete removes the record stored under id.
func Delete(s *Store, id types.Thing) error {
	if id.IsZero() {
		return types.NewValueNotOfTypeError("thing")
	}
	if err := s.ds.Delete(s.ses, id); err != nil {
		return types.Lift(err)
	}

	logger.Debug("deleted", "id", id.String())
	return nil
}

// List returns the entities of T's table matching filter, ordered and
// paged by opts. A nil filter matches every record. The result is never
// nil on success.
func List[T any, PT types.Creatable[T]](s *Store, filter types.Filter, opts *types.ListOptions) ([]T, error) {
	var entity T
	table := PT(&entity).TableName()

	sel, err := query.BuildSelect(s.ses.From(table), filter, opts)
	if err != nil {
		return nil, types.Lift(err)
	}
	recs, err := s.ds.Query(s.ses, sel)
	if err != nil {
		return nil, types.Lift(err)
	}

	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		t, err := fromThing[T, PT](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	logger.Debug("listed", "table", table, "count", len(out))
	return out, nil
}

func fromThing[T any, PT types.Creatable[T]](rec types.Object) (T, error) {
	var out T
	if err := PT(&out).FromThing(rec); err != nil {
		var zero T
		return zero, types.Lift(err)
	}
	return out, nil
}

func checkTable[T any, PT types.Creatable[T]](id types.Thing) error {
	var entity T
	if table := PT(&entity).TableName(); id.Table != table || id.Key == "" {
		return types.NewValueNotOfTypeError(table)
	}
	return nil
}

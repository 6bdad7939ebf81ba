package types

// Creatable is implemented by entity types the Store can persist. PT is the
// pointer type of the entity so that FromThing can fill a zero value.
//
// ToThing describes the entity as a record, failing with a Serde or
// PropertyNotFound error when a required field cannot be represented.
// FromThing rebuilds the entity from a stored record, failing with
// ValueNotOfType or PropertyNotFound.
type Creatable[T any] interface {
	*T
	TableName() string
	ToThing() (Object, error)
	FromThing(Object) error
}

// Patchable is implemented by partial-update types. ToPatch returns a sparse
// record holding only the fields being changed; FromPatch rebuilds the
// acknowledgment from the patched fields of the stored record.
type Patchable[P any] interface {
	*P
	ToPatch() (Object, error)
	FromPatch(Object) error
}

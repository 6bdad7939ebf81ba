package sqlite

import "errors"

// Native datastore errors. The Store lifts them into the types taxonomy as
// backend failures; errors.Is still sees them through the wrapper.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrRecordExists    = errors.New("record already exists")
	ErrDatastoreClosed = errors.New("datastore closed")
	ErrInvalidTable    = errors.New("invalid table name")
	ErrScopeMismatch   = errors.New("query scope does not match session")
)

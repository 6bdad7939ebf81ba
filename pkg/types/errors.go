package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Kind identifies which variant of the taxonomy an Error carries.
type Kind int

// Error kinds. Exactly one is active per Error.
const (
	KindCtxFail Kind = iota + 1
	KindValueNotOfType
	KindPropertyNotFound
	KindStoreFailToCreate
	KindSerde
	KindQuery
	KindOperatorNotSupported
	KindBackend
	KindIO
)

var kindNames = map[Kind]string{
	KindCtxFail:              "CtxFail",
	KindValueNotOfType:       "ValueNotOfType",
	KindPropertyNotFound:     "PropertyNotFound",
	KindStoreFailToCreate:    "StoreFailToCreate",
	KindSerde:                "Serde",
	KindQuery:                "Query",
	KindOperatorNotSupported: "OperatorNotSupported",
	KindBackend:              "Backend",
	KindIO:                   "IO",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrCtxFail              = errors.New("context resolution failed")
	ErrValueNotOfType       = errors.New("value not of expected type")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrStoreFailToCreate    = errors.New("store failed to create")
	ErrSerde                = errors.New("serialization failed")
	ErrQuery                = errors.New("query translation failed")
	ErrOperatorNotSupported = errors.New("operator not supported")
	ErrBackend              = errors.New("backend driver failed")
	ErrIO                   = errors.New("i/o failed")
)

var kindSentinels = map[Kind]error{
	KindCtxFail:              ErrCtxFail,
	KindValueNotOfType:       ErrValueNotOfType,
	KindPropertyNotFound:     ErrPropertyNotFound,
	KindStoreFailToCreate:    ErrStoreFailToCreate,
	KindSerde:                ErrSerde,
	KindQuery:                ErrQuery,
	KindOperatorNotSupported: ErrOperatorNotSupported,
	KindBackend:              ErrBackend,
	KindIO:                   ErrIO,
}

// Error is the single failure type returned by every Store operation.
// Detail carries the string payload of ValueNotOfType (expected type name),
// PropertyNotFound (property name), StoreFailToCreate (message) and
// OperatorNotSupported (operator). Err carries the wrapped native error of
// Serde, Query, Backend and IO.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

// Error renders the tag-and-payload debug form, e.g. PropertyNotFound("name").
func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s(%v)", e.Kind, e.Err)
	case e.Kind == KindCtxFail:
		return e.Kind.String()
	default:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Detail)
	}
}

// Unwrap returns the wrapped native error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// NewCtxFailError reports a failure to resolve the caller context.
func NewCtxFailError() error {
	return &Error{Kind: KindCtxFail}
}

// NewValueNotOfTypeError reports a stored value whose type disagrees with
// the expected type name.
func NewValueNotOfTypeError(expected string) error {
	return &Error{Kind: KindValueNotOfType, Detail: expected}
}

// NewPropertyNotFoundError reports a missing required property.
func NewPropertyNotFoundError(property string) error {
	return &Error{Kind: KindPropertyNotFound, Detail: property}
}

// NewStoreFailToCreateError reports that a store could not be constructed.
func NewStoreFailToCreateError(msg string) error {
	return &Error{Kind: KindStoreFailToCreate, Detail: msg}
}

// NewSerdeError wraps a codec failure.
func NewSerdeError(err error) error {
	return &Error{Kind: KindSerde, Err: err}
}

// NewQueryError wraps a query translation failure.
func NewQueryError(err error) error {
	return &Error{Kind: KindQuery, Err: err}
}

// NewOperatorNotSupportedError names an operator missing from the
// builder's operator table.
func NewOperatorNotSupportedError(op string) error {
	return &Error{Kind: KindOperatorNotSupported, Detail: op}
}

// NewBackendError wraps a backend driver failure.
func NewBackendError(err error) error {
	return &Error{Kind: KindBackend, Err: err}
}

// NewIOError wraps an I/O failure.
func NewIOError(err error) error {
	return &Error{Kind: KindIO, Err: err}
}

// Lift converts any error into an *Error. Errors that already belong to the
// taxonomy pass through unchanged; codec errors become Serde, filesystem and
// stream errors become IO, and everything else is treated as a backend
// driver failure. Lift(nil) is nil.
func Lift(err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		marshErr  *json.MarshalerError
		pathErr   *fs.PathError
		linkErr   *os.LinkError
		sysErr    *os.SyscallError
	)
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.As(err, &marshErr):
		return NewSerdeError(err)
	case errors.As(err, &pathErr), errors.As(err, &linkErr), errors.As(err, &sysErr),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.ErrShortWrite),
		errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrNotExist):
		return NewIOError(err)
	default:
		return NewBackendError(err)
	}
}

// KindOf returns the kind of err, or 0 when err is not in the taxonomy.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

// IsCtxFail reports whether err is a context resolution failure.
func IsCtxFail(err error) bool { return errors.Is(err, ErrCtxFail) }

// IsValueNotOfType reports whether err is a value type mismatch.
func IsValueNotOfType(err error) bool { return errors.Is(err, ErrValueNotOfType) }

// IsPropertyNotFound reports whether err is a missing property.
func IsPropertyNotFound(err error) bool { return errors.Is(err, ErrPropertyNotFound) }

// IsStoreFailToCreate reports whether err is a store construction failure.
func IsStoreFailToCreate(err error) bool { return errors.Is(err, ErrStoreFailToCreate) }

// IsSerde reports whether err is a serialization failure.
func IsSerde(err error) bool { return errors.Is(err, ErrSerde) }

// IsQuery reports whether err is a query translation failure.
func IsQuery(err error) bool { return errors.Is(err, ErrQuery) }

// IsOperatorNotSupported reports whether err names an unknown operator.
func IsOperatorNotSupported(err error) bool { return errors.Is(err, ErrOperatorNotSupported) }

// IsBackend reports whether err is a backend driver failure.
func IsBackend(err error) bool { return errors.Is(err, ErrBackend) }

// IsIO reports whether err is an I/O failure.
func IsIO(err error) bool { return errors.Is(err, ErrIO) }

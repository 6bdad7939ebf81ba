package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorDebugForm(t *testing.T) {
	native := errors.New("disk on fire")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ctx fail", NewCtxFailError(), "CtxFail"},
		{"value not of type", NewValueNotOfTypeError("string"), `ValueNotOfType("string")`},
		{"property not found", NewPropertyNotFoundError("name"), `PropertyNotFound("name")`},
		{"store fail to create", NewStoreFailToCreateError("no data dir"), `StoreFailToCreate("no data dir")`},
		{"operator not supported", NewOperatorNotSupportedError("$regex"), `OperatorNotSupported("$regex")`},
		{"serde", NewSerdeError(native), "Serde(disk on fire)"},
		{"query", NewQueryError(native), "Query(disk on fire)"},
		{"backend", NewBackendError(native), "Backend(disk on fire)"},
		{"io", NewIOError(native), "IO(disk on fire)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorKindsMatchOnlyTheirSentinel(t *testing.T) {
	errs := map[Kind]error{
		KindCtxFail:              NewCtxFailError(),
		KindValueNotOfType:       NewValueNotOfTypeError("int64"),
		KindPropertyNotFound:     NewPropertyNotFoundError("id"),
		KindStoreFailToCreate:    NewStoreFailToCreateError("boom"),
		KindSerde:                NewSerdeError(io.EOF),
		KindQuery:                NewQueryError(io.EOF),
		KindOperatorNotSupported: NewOperatorNotSupportedError("$x"),
		KindBackend:              NewBackendError(io.EOF),
		KindIO:                   NewIOError(io.EOF),
	}

	for kind, err := range errs {
		for otherKind, sentinel := range kindSentinels {
			got := errors.Is(err, sentinel)
			assert.Equal(t, kind == otherKind, got, "%s vs sentinel of %s", kind, otherKind)
		}
		assert.Equal(t, kind, KindOf(err))
	}
}

func TestErrorUnwrapKeepsNativeError(t *testing.T) {
	notFound := errors.New("record not found")
	err := NewBackendError(fmt.Errorf("select user:1: %w", notFound))

	assert.True(t, IsBackend(err))
	assert.True(t, errors.Is(err, notFound))

	var te *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", err), &te))
	assert.Equal(t, KindBackend, te.Kind)
}

func TestLift(t *testing.T) {
	var syntaxErr error
	{
		var v any
		syntaxErr = json.Unmarshal([]byte("{"), &v)
		require.Error(t, syntaxErr)
	}

	tests := []struct {
		name string
		in   error
		want Kind
	}{
		{"taxonomy error passes through", NewPropertyNotFoundError("x"), KindPropertyNotFound},
		{"wrapped taxonomy error passes through", fmt.Errorf("ctx: %w", NewQueryError(io.EOF)), KindQuery},
		{"json syntax error is serde", syntaxErr, KindSerde},
		{"path error is io", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}, KindIO},
		{"unexpected eof is io", io.ErrUnexpectedEOF, KindIO},
		{"unknown error is backend", errors.New("database is locked"), KindBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lift(tt.in)
			require.Error(t, got)
			assert.Equal(t, tt.want, KindOf(got))
			assert.True(t, errors.Is(got, tt.in) || got == tt.in)
		})
	}

	assert.NoError(t, Lift(nil))
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsCtxFail(NewCtxFailError()))
	assert.True(t, IsValueNotOfType(NewValueNotOfTypeError("bool")))
	assert.True(t, IsPropertyNotFound(NewPropertyNotFoundError("name")))
	assert.True(t, IsStoreFailToCreate(NewStoreFailToCreateError("x")))
	assert.True(t, IsSerde(NewSerdeError(io.EOF)))
	assert.True(t, IsQuery(NewQueryError(io.EOF)))
	assert.True(t, IsOperatorNotSupported(NewOperatorNotSupportedError("$x")))
	assert.True(t, IsBackend(NewBackendError(io.EOF)))
	assert.True(t, IsIO(NewIOError(io.EOF)))
	assert.False(t, IsBackend(io.EOF))
	assert.Equal(t, Kind(0), KindOf(io.EOF))
}

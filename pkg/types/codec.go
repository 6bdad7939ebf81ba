package types

import (
	"reflect"

	"github.com/ugorji/go/codec"
)

// recordHandle is the JSON codec used for record content. Maps encode with
// sorted keys so the stored text is deterministic; nested maps decode as
// map[string]any and integers as int64.
var recordHandle = newRecordHandle()

func newRecordHandle() *codec.JsonHandle {
	h := new(codec.JsonHandle)
	h.MapType = reflect.TypeOf(map[string]any(nil))
	h.SliceType = reflect.TypeOf([]any(nil))
	h.SignedInteger = true
	h.Canonical = true
	return h
}

// EncodeObject serializes o to JSON text.
func EncodeObject(o Object) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, recordHandle).Encode(map[string]any(o)); err != nil {
		return nil, NewSerdeError(err)
	}
	return out, nil
}

// DecodeObject parses JSON text produced by EncodeObject.
func DecodeObject(b []byte) (Object, error) {
	var m map[string]any
	if err := codec.NewDecoderBytes(b, recordHandle).Decode(&m); err != nil {
		return nil, NewSerdeError(err)
	}
	if m == nil {
		return nil, NewValueNotOfTypeError("object")
	}
	return Object(m), nil
}

// ObjectFrom converts a struct (or map) into a record using its codec/json
// field tags.
func ObjectFrom(v any) (Object, error) {
	var raw []byte
	if err := codec.NewEncoderBytes(&raw, recordHandle).Encode(v); err != nil {
		return nil, NewSerdeError(err)
	}
	return DecodeObject(raw)
}

// Decode fills the struct pointed to by v from o using codec/json field tags.
// Fields of o without a matching struct field are ignored.
func (o Object) Decode(v any) error {
	raw, err := EncodeObject(o)
	if err != nil {
		return err
	}
	if err := codec.NewDecoderBytes(raw, recordHandle).Decode(v); err != nil {
		return NewSerdeError(err)
	}
	return nil
}

package types

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// IDField is the record field holding the record's Thing as "table:key".
const IDField = "id"

// Object is the backend's schema-less record: field name to value, plus the
// identity held under IDField. Values are the JSON-shaped Go types produced
// by the record codec (string, bool, int64, uint64, float64, []any,
// map[string]any, nil).
type Object map[string]any

// Keys returns the field names in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of o.
func (o Object) Clone() Object {
	c := make(Object, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Thing returns the record identity stored under IDField.
func (o Object) Thing() (Thing, error) {
	v, ok := o[IDField]
	if !ok || v == nil {
		return Thing{}, NewPropertyNotFoundError(IDField)
	}
	switch tv := v.(type) {
	case Thing:
		return tv, nil
	case string:
		return ParseThing(tv)
	default:
		return Thing{}, NewValueNotOfTypeError("thing")
	}
}

// SetThing stores t under IDField.
func (o Object) SetThing(t Thing) {
	o[IDField] = t.String()
}

func (o Object) lookup(name string) (any, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return nil, NewPropertyNotFoundError(name)
	}
	return v, nil
}

// GetString returns the string field name.
func (o Object) GetString(name string) (string, error) {
	v, err := o.lookup(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", NewValueNotOfTypeError("string")
	}
	return s, nil
}

// GetInt64 returns the integer field name. Integral floats are accepted
// since some codecs decode every number as float64.
func (o Object) GetInt64(name string) (int64, error) {
	v, err := o.lookup(name)
	if err != nil {
		return 0, err
	}
	if n, ok := toInt64(v); ok {
		return n, nil
	}
	return 0, NewValueNotOfTypeError("int64")
}

// GetFloat64 returns the numeric field name.
func (o Object) GetFloat64(name string) (float64, error) {
	v, err := o.lookup(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, NewValueNotOfTypeError("float64")
		}
		return f, nil
	}
	if n, ok := toInt64(v); ok {
		return float64(n), nil
	}
	return 0, NewValueNotOfTypeError("float64")
}

// GetBool returns the boolean field name.
func (o Object) GetBool(name string) (bool, error) {
	v, err := o.lookup(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, NewValueNotOfTypeError("bool")
	}
	return b, nil
}

// GetTime returns the RFC 3339 timestamp field name.
func (o Object) GetTime(name string) (time.Time, error) {
	v, err := o.lookup(name)
	if err != nil {
		return time.Time{}, err
	}
	switch tv := v.(type) {
	case time.Time:
		return tv, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, tv)
		if err != nil {
			return time.Time{}, NewValueNotOfTypeError("datetime")
		}
		return t, nil
	default:
		return time.Time{}, NewValueNotOfTypeError("datetime")
	}
}

// GetStrings returns the string array field name.
func (o Object) GetStrings(name string) ([]string, error) {
	v, err := o.lookup(name)
	if err != nil {
		return nil, err
	}
	switch tv := v.(type) {
	case []string:
		return append([]string(nil), tv...), nil
	case []any:
		out := make([]string, 0, len(tv))
		for _, item := range tv {
			s, ok := item.(string)
			if !ok {
				return nil, NewValueNotOfTypeError("[]string")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, NewValueNotOfTypeError("[]string")
	}
}

// GetThing returns the Thing reference stored in field name.
func (o Object) GetThing(name string) (Thing, error) {
	s, err := o.GetString(name)
	if err != nil {
		return Thing{}, err
	}
	return ParseThing(s)
}

// OptString returns the string field name, or "" when it is absent.
// A present value of another type is still an error.
func (o Object) OptString(name string) (string, error) {
	if !o.Has(name) {
		return "", nil
	}
	return o.GetString(name)
}

// OptInt64 returns the integer field name, or 0 when it is absent.
func (o Object) OptInt64(name string) (int64, error) {
	if !o.Has(name) {
		return 0, nil
	}
	return o.GetInt64(name)
}

// OptBool returns the boolean field name, or false when it is absent.
func (o Object) OptBool(name string) (bool, error) {
	if !o.Has(name) {
		return false, nil
	}
	return o.GetBool(name)
}

// OptStrings returns the string array field name, or nil when it is absent.
func (o Object) OptStrings(name string) ([]string, error) {
	if !o.Has(name) {
		return nil, nil
	}
	return o.GetStrings(name)
}

// Has reports whether name is present with a non-nil value.
func (o Object) Has(name string) bool {
	v, ok := o[name]
	return ok && v != nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// orKeyword separates filter groups on the command line.
const orKeyword = "or"

// ErrBadFilterTerm reports a filter argument that is not field<op>value.
var ErrBadFilterTerm = errors.New("invalid filter term")

// shorthand operators, two-character forms first.
var shorthand = []struct {
	sym string
	op  string
}{
	{"!=", types.OpNot},
	{">=", types.OpGte},
	{"<=", types.OpLte},
	{"=", types.OpEq},
	{">", types.OpGt},
	{"<", types.OpLt},
}

// parseFilter turns list arguments into a filter. Terms are ANDed; the word
// "or" starts a new group. A term is field=value, field!=value, field<value,
// field<=value, field>value, field>=value, or field:$op=value for any
// operator. Values are read as JSON when they parse, otherwise as strings.
func parseFilter(args []string) (types.Filter, error) {
	if len(args) == 0 {
		return nil, nil
	}

	groups := types.FilterGroups{nil}
	for _, arg := range args {
		if arg == orKeyword {
			groups = append(groups, nil)
			continue
		}
		c, err := parseTerm(arg)
		if err != nil {
			return nil, err
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], c)
	}
	for _, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("%w: empty group around %q", ErrBadFilterTerm, orKeyword)
		}
	}
	return groups.Filter(), nil
}

func parseTerm(arg string) (types.Cond, error) {
	if field, rest, ok := strings.Cut(arg, ":$"); ok {
		op, raw, ok := strings.Cut(rest, "=")
		if !ok || field == "" {
			return types.Cond{}, fmt.Errorf("%w: %q", ErrBadFilterTerm, arg)
		}
		return types.Cond{Field: field, Op: "$" + op, Value: parseValue(raw)}, nil
	}

	for i := range len(arg) {
		for _, s := range shorthand {
			if strings.HasPrefix(arg[i:], s.sym) {
				if i == 0 {
					return types.Cond{}, fmt.Errorf("%w: %q", ErrBadFilterTerm, arg)
				}
				return types.Cond{Field: arg[:i], Op: s.op, Value: parseValue(arg[i+len(s.sym):])}, nil
			}
		}
	}
	return types.Cond{}, fmt.Errorf("%w: %q", ErrBadFilterTerm, arg)
}

// parseValue reads raw as JSON, falling back to the raw string. Numbers
// become int64 when integral.
func parseValue(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return normalizeNumbers(v)
}

func normalizeNumbers(v any) any {
	switch tv := v.(type) {
	case json.Number:
		if n, err := tv.Int64(); err == nil {
			return n
		}
		f, _ := tv.Float64()
		return f
	case []any:
		for i := range tv {
			tv[i] = normalizeNumbers(tv[i])
		}
		return tv
	default:
		return v
	}
}

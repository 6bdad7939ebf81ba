// Tests for filter and list option translation.
package query

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mesh-intelligence/thingstore/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scopePrefix = "SELECT tb, key, content FROM records WHERE ns = ? AND db = ? AND tb = ?"

var users = From{Namespace: "app", Database: "main", Table: "user"}

func TestBuildSelect_NoFilter(t *testing.T) {
	sel, err := BuildSelect(users, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, scopePrefix+" ORDER BY key ASC", sel.Text)
	assert.Equal(t, []any{"app", "main", "user"}, sel.Args)
}

func TestBuildSelect_Operators(t *testing.T) {
	field := "json_extract(content, '$.name')"
	tests := []struct {
		name     string
		cond     types.Cond
		wantSQL  string
		wantArgs []any
	}{
		{"eq", types.Eq("name", "alice"), field + " = ?", []any{"alice"}},
		{"eq nil", types.Eq("name", nil), field + " IS NULL", nil},
		{"not", types.Cond{Field: "name", Op: types.OpNot, Value: "bob"}, field + " != ?", []any{"bob"}},
		{"not nil", types.Cond{Field: "name", Op: types.OpNot, Value: nil}, field + " IS NOT NULL", nil},
		{"lt", types.Cond{Field: "name", Op: types.OpLt, Value: 3}, field + " < ?", []any{3}},
		{"lte", types.Cond{Field: "name", Op: types.OpLte, Value: 3.5}, field + " <= ?", []any{3.5}},
		{"gt", types.Cond{Field: "name", Op: types.OpGt, Value: int64(7)}, field + " > ?", []any{int64(7)}},
		{"gte", types.Cond{Field: "name", Op: types.OpGte, Value: uint(7)}, field + " >= ?", []any{int64(7)}},
		{"in", types.Cond{Field: "name", Op: types.OpIn, Value: []string{"a", "b"}}, field + " IN (?, ?)", []any{"a", "b"}},
		{"not in", types.Cond{Field: "name", Op: types.OpNotIn, Value: []any{1, "x"}}, field + " NOT IN (?, ?)", []any{1, "x"}},
		{"contains", types.Cond{Field: "name", Op: types.OpContains, Value: "li"}, field + ` LIKE ? ESCAPE '\'`, []any{"%li%"}},
		{"not contains", types.Cond{Field: "name", Op: types.OpNotContains, Value: "li"}, field + ` NOT LIKE ? ESCAPE '\'`, []any{"%li%"}},
		{"starts with", types.Cond{Field: "name", Op: types.OpStartsWith, Value: "al"}, field + ` LIKE ? ESCAPE '\'`, []any{"al%"}},
		{"ends with", types.Cond{Field: "name", Op: types.OpEndsWith, Value: "ce"}, field + ` LIKE ? ESCAPE '\'`, []any{"%ce"}},
		{"null true", types.Cond{Field: "name", Op: types.OpNull, Value: true}, field + " IS NULL", nil},
		{"null false", types.Cond{Field: "name", Op: types.OpNull, Value: false}, field + " IS NOT NULL", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := BuildSelect(users, tt.cond, nil)
			require.NoError(t, err)
			assert.Equal(t, scopePrefix+" AND "+tt.wantSQL+" ORDER BY key ASC", sel.Text)
			assert.Equal(t, append([]any{"app", "main", "user"}, tt.wantArgs...), sel.Args)
		})
	}
}

func TestBuildSelect_OperatorTableComplete(t *testing.T) {
	assert.ElementsMatch(t, []string{
		types.OpEq, types.OpNot, types.OpLt, types.OpLte, types.OpGt, types.OpGte,
		types.OpIn, types.OpNotIn, types.OpContains, types.OpNotContains,
		types.OpStartsWith, types.OpEndsWith, types.OpNull,
	}, SupportedOperators())
}

func TestBuildSelect_IDField(t *testing.T) {
	id := types.NewThing("user", "k1")
	sel, err := BuildSelect(users, types.Eq(types.IDField, id), types.NewListOptions(0, 0, "!id"))
	require.NoError(t, err)
	assert.Equal(t, scopePrefix+" AND (tb || ':' || key) = ? ORDER BY (tb || ':' || key) DESC, key ASC", sel.Text)
	assert.Equal(t, "user:k1", sel.Args[3])
}

func TestBuildSelect_OperandNormalization(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	sel, err := BuildSelect(users, types.Cond{Field: "created", Op: types.OpGte, Value: ts}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02T02:04:05Z", sel.Args[3])

	sel, err = BuildSelect(users, types.Cond{Field: "name", Op: types.OpContains, Value: `50%_off\`}, nil)
	require.NoError(t, err)
	assert.Equal(t, `%50\%\_off\\%`, sel.Args[3])

	sel, err = BuildSelect(users, types.Cond{Field: "age", Op: types.OpLt, Value: uint64(math.MaxInt64)}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), sel.Args[3])
}

func TestBuildSelect_UnknownOperator(t *testing.T) {
	filters := map[string]types.Filter{
		"top level": types.Cond{Field: "name", Op: "$regex", Value: "a.*"},
		"nested after valid conditions": types.Any{
			types.All{types.Eq("a", 1), types.Eq("b", 2)},
			types.All{types.Eq("c", 3), types.Cond{Field: "d", Op: "$regex", Value: "x"}},
		},
	}

	for name, f := range filters {
		t.Run(name, func(t *testing.T) {
			sel, err := BuildSelect(users, f, types.NewListOptions(10, 0, "name"))
			require.Error(t, err)
			assert.True(t, types.IsOperatorNotSupported(err))
			assert.Equal(t, `OperatorNotSupported("$regex")`, err.Error())
			assert.True(t, sel.IsZero())
		})
	}
}

func TestBuildSelect_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		from    From
		filter  types.Filter
		opts    *types.ListOptions
		wantErr error
	}{
		{"in with scalar", users, types.Cond{Field: "a", Op: types.OpIn, Value: "x"}, nil, ErrInvalidValue},
		{"null with string", users, types.Cond{Field: "a", Op: types.OpNull, Value: "yes"}, nil, ErrInvalidValue},
		{"contains with int", users, types.Cond{Field: "a", Op: types.OpContains, Value: 3}, nil, ErrInvalidValue},
		{"map operand", users, types.Eq("a", map[string]any{"x": 1}), nil, ErrInvalidValue},
		{"list with map", users, types.Cond{Field: "a", Op: types.OpIn, Value: []any{map[string]any{}}}, nil, ErrInvalidValue},
		{"uint64 above int64", users, types.Cond{Field: "age", Op: types.OpLt, Value: uint64(math.MaxUint64)}, nil, ErrInvalidValue},
		{"list with large uint64", users, types.Cond{Field: "age", Op: types.OpIn, Value: []uint64{1, math.MaxInt64 + 1}}, nil, ErrInvalidValue},
		{"empty field", users, types.Eq("", 1), nil, ErrInvalidField},
		{"field with quote", users, types.Eq("a') OR 1=1 --", 1), nil, ErrInvalidField},
		{"field with trailing dot", users, types.Eq("a.", 1), nil, ErrInvalidField},
		{"empty group", users, types.Any{types.All{}}, nil, ErrEmptyGroup},
		{"bad order field", users, nil, types.NewListOptions(0, 0, "a b"), ErrInvalidField},
		{"negative limit", users, nil, &types.ListOptions{Limit: -1}, ErrInvalidOptions},
		{"bad table", From{Namespace: "app", Database: "main", Table: "user;"}, nil, nil, ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := BuildSelect(tt.from, tt.filter, tt.opts)
			require.Error(t, err)
			assert.True(t, types.IsQuery(err), "got %v", err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.True(t, sel.IsZero())
		})
	}
}

func TestBuildSelect_Paging(t *testing.T) {
	tests := []struct {
		name string
		opts *types.ListOptions
		want string
	}{
		{"limit only", types.NewListOptions(10, 0), " ORDER BY key ASC LIMIT 10"},
		{"offset only", types.NewListOptions(0, 5), " ORDER BY key ASC LIMIT -1 OFFSET 5"},
		{"limit and offset", types.NewListOptions(10, 20), " ORDER BY key ASC LIMIT 10 OFFSET 20"},
		{
			"order limit offset",
			types.NewListOptions(2, 4, "name", "!age"),
			" ORDER BY json_extract(content, '$.name') ASC, json_extract(content, '$.age') DESC, key ASC LIMIT 2 OFFSET 4",
		},
		{"nested field", types.NewListOptions(0, 0, "profile.city"), " ORDER BY json_extract(content, '$.profile.city') ASC, key ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := BuildSelect(users, nil, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, scopePrefix+tt.want, sel.Text)
		})
	}
}

func TestBuildSelect_Deterministic(t *testing.T) {
	f := types.FilterGroups{
		{types.Eq("name", "alice"), {Field: "age", Op: types.OpGte, Value: 18}},
		{{Field: "tags", Op: types.OpIn, Value: []string{"x", "y"}}},
	}.Filter()
	opts := types.NewListOptions(5, 10, "!age", "name")

	first, err := BuildSelect(users, f, opts)
	require.NoError(t, err)
	for range 20 {
		again, err := BuildSelect(users, f, opts)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildSelect_GroupStructurePreserved(t *testing.T) {
	filters := map[string]types.Filter{
		"single condition": types.Eq("a", 1),
		"groups of conditions": types.FilterGroups{
			{types.Eq("a", 1), types.Eq("b", 2)},
			{types.Eq("c", 3)},
		}.Filter(),
		"deep nesting": types.All{
			types.Eq("a", 1),
			types.Any{
				types.Eq("b", 2),
				types.All{types.Eq("c", 3), types.Any{types.Eq("d", 4), types.Eq("e", 5)}},
			},
			types.Cond{Field: "f", Op: types.OpIn, Value: []int{1, 2}},
			types.Cond{Field: "g", Op: types.OpContains, Value: "z"},
		},
	}

	for name, f := range filters {
		t.Run(name, func(t *testing.T) {
			sel, err := BuildSelect(users, f, types.NewListOptions(1, 0, "a"))
			require.NoError(t, err)

			where := strings.TrimPrefix(sel.Text, scopePrefix+" AND ")
			where, _, ok := strings.Cut(where, " ORDER BY ")
			require.True(t, ok)

			p := &whereParser{s: where}
			got := p.parse()
			require.Equal(t, len(where), p.pos, "unparsed tail in %q", where)
			assert.Equal(t, shapeOf(f), got)
		})
	}
}

// shape is a filter tree reduced to its group structure and field names.
type shape struct {
	Op    string
	Field string
	Kids  []shape
}

func shapeOf(f types.Filter) shape {
	switch n := f.(type) {
	case types.Cond:
		return shape{Field: n.Field}
	case types.All:
		return groupShape("AND", n)
	case types.Any:
		return groupShape("OR", n)
	}
	return shape{}
}

func groupShape(op string, children []types.Filter) shape {
	s := shape{Op: op}
	if len(children) == 1 {
		s.Op = ""
	}
	for _, c := range children {
		s.Kids = append(s.Kids, shapeOf(c))
	}
	return s
}

var fieldInAtom = regexp.MustCompile(`\$\.([A-Za-z0-9_.]+)'`)

// whereParser re-parses a generated WHERE clause. A '(' in operand position
// opens a group; anything else is a condition running until AND/OR or a
// group close at nesting depth zero.
type whereParser struct {
	s   string
	pos int
}

func (p *whereParser) parse() shape {
	if p.pos < len(p.s) && p.s[p.pos] == '(' {
		p.pos++
		g := shape{}
		for {
			g.Kids = append(g.Kids, p.parse())
			if p.pos < len(p.s) && p.s[p.pos] == ')' {
				p.pos++
				return g
			}
			switch {
			case strings.HasPrefix(p.s[p.pos:], " AND "):
				g.Op = "AND"
				p.pos += len(" AND ")
			case strings.HasPrefix(p.s[p.pos:], " OR "):
				g.Op = "OR"
				p.pos += len(" OR ")
			default:
				return g
			}
		}
	}
	return p.atom()
}

func (p *whereParser) atom() shape {
	start, depth, quoted := p.pos, 0, false
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case quoted:
			quoted = c != '\''
		case c == '\'':
			quoted = true
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return atomShape(p.s[start:p.pos])
			}
			depth--
		case depth == 0 && (strings.HasPrefix(p.s[p.pos:], " AND ") || strings.HasPrefix(p.s[p.pos:], " OR ")):
			return atomShape(p.s[start:p.pos])
		}
		p.pos++
	}
	return atomShape(p.s[start:])
}

func atomShape(text string) shape {
	m := fieldInAtom.FindStringSubmatch(text)
	if m == nil {
		return shape{Field: text}
	}
	return shape{Field: m[1]}
}

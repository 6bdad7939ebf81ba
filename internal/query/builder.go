package query

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// RecordsTable is the SQLite table holding every record.
const RecordsTable = "records"

// Native builder errors, wrapped in types.KindQuery errors.
var (
	ErrInvalidField   = errors.New("invalid field name")
	ErrInvalidValue   = errors.New("invalid operand")
	ErrInvalidTarget  = errors.New("invalid query target")
	ErrInvalidOptions = errors.New("invalid list options")
	ErrEmptyGroup     = errors.New("empty filter group")
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// From scopes a select to one table of one session.
type From struct {
	Namespace string
	Database  string
	Table     string
}

// Select is a backend-native query: SQL text plus positional arguments.
type Select struct {
	Text string
	Args []any
}

// IsZero reports whether s is the zero Select.
func (s Select) IsZero() bool {
	return s.Text == "" && s.Args == nil
}

// BuildSelect builds the select for records of from.Table matching filter,
// ordered and paged by opts. A nil filter matches every record; nil opts
// means no ordering beyond the record key and no paging.
func BuildSelect(from From, filter types.Filter, opts *types.ListOptions) (Select, error) {
	if err := validateFrom(from); err != nil {
		return Select{}, err
	}
	if filter != nil {
		if err := validate(filter); err != nil {
			return Select{}, err
		}
	}
	if err := validateOptions(opts); err != nil {
		return Select{}, err
	}

	b := &builder{}
	b.WriteString("SELECT tb, key, content FROM " + RecordsTable + " WHERE ns = ? AND db = ? AND tb = ?")
	b.args = append(b.args, from.Namespace, from.Database, from.Table)
	if filter != nil {
		b.WriteString(" AND ")
		b.node(filter)
	}
	b.orderBy(opts)
	b.paging(opts)

	return Select{Text: b.String(), Args: b.args}, nil
}

func validateFrom(from From) error {
	for _, name := range []string{from.Namespace, from.Database, from.Table} {
		if !types.ValidTableName(name) {
			return types.NewQueryError(fmt.Errorf("%w: %q", ErrInvalidTarget, name))
		}
	}
	return nil
}

func validateOptions(opts *types.ListOptions) error {
	if opts == nil {
		return nil
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return types.NewQueryError(fmt.Errorf("%w: limit %d offset %d", ErrInvalidOptions, opts.Limit, opts.Offset))
	}
	for _, ob := range opts.OrderBys {
		if err := validateField(ob.Field); err != nil {
			return err
		}
	}
	return nil
}

func validateField(field string) error {
	if !fieldPattern.MatchString(field) {
		return types.NewQueryError(fmt.Errorf("%w: %q", ErrInvalidField, field))
	}
	return nil
}

func validate(f types.Filter) error {
	switch n := f.(type) {
	case types.Cond:
		return validateCond(n)
	case types.All:
		return validateGroup([]types.Filter(n))
	case types.Any:
		return validateGroup([]types.Filter(n))
	default:
		return types.NewQueryError(fmt.Errorf("%w: filter node %T", ErrInvalidValue, f))
	}
}

func validateGroup(children []types.Filter) error {
	if len(children) == 0 {
		return types.NewQueryError(ErrEmptyGroup)
	}
	for _, c := range children {
		if err := validate(c); err != nil {
			return err
		}
	}
	return nil
}

func validateCond(c types.Cond) error {
	op, ok := operators[c.Op]
	if !ok {
		return types.NewOperatorNotSupportedError(c.Op)
	}
	if err := validateField(c.Field); err != nil {
		return err
	}
	if err := op.check(c.Value); err != nil {
		return types.NewQueryError(fmt.Errorf("%s %s: %w", c.Field, c.Op, err))
	}
	return nil
}

type builder struct {
	strings.Builder
	args []any
}

func (b *builder) node(f types.Filter) {
	switch n := f.(type) {
	case types.Cond:
		operators[n.Op].emit(b, fieldExpr(n.Field), n.Value)
	case types.All:
		b.group([]types.Filter(n), " AND ")
	case types.Any:
		b.group([]types.Filter(n), " OR ")
	}
}

func (b *builder) group(children []types.Filter, sep string) {
	b.WriteByte('(')
	for i, c := range children {
		if i > 0 {
			b.WriteString(sep)
		}
		b.node(c)
	}
	b.WriteByte(')')
}

func (b *builder) orderBy(opts *types.ListOptions) {
	b.WriteString(" ORDER BY ")
	if opts != nil {
		for _, ob := range opts.OrderBys {
			b.WriteString(fieldExpr(ob.Field))
			if ob.Desc {
				b.WriteString(" DESC, ")
			} else {
				b.WriteString(" ASC, ")
			}
		}
	}
	b.WriteString("key ASC")
}

func (b *builder) paging(opts *types.ListOptions) {
	if opts == nil {
		return
	}
	switch {
	case opts.Limit > 0:
		b.WriteString(" LIMIT " + strconv.FormatInt(opts.Limit, 10))
	case opts.Offset > 0:
		// SQLite requires a LIMIT before OFFSET.
		b.WriteString(" LIMIT -1")
	}
	if opts.Offset > 0 {
		b.WriteString(" OFFSET " + strconv.FormatInt(opts.Offset, 10))
	}
}

// fieldExpr returns the SQL expression reading field from a record row.
func fieldExpr(field string) string {
	if field == types.IDField {
		return "(tb || ':' || key)"
	}
	return "json_extract(content, '$." + field + "')"
}

// scalar normalizes an operand to a value the SQLite driver binds.
func scalar(v any) (any, error) {
	switch tv := v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint8, uint16, uint32, float32, float64:
		return tv, nil
	case uint:
		return unsigned(uint64(tv))
	case uint64:
		return unsigned(tv)
	case types.Thing:
		return tv.String(), nil
	case time.Time:
		return tv.UTC().Format(time.RFC3339Nano), nil
	default:
		return nil, fmt.Errorf("%w: unsupported operand type %T", ErrInvalidValue, v)
	}
}

// unsigned converts u to int64, the widest integer SQLite stores.
func unsigned(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrInvalidValue, u)
	}
	return int64(u), nil
}

// list normalizes a slice operand.
func list(v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidValue, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		s, err := scalar(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

package query

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// operator checks an operand and writes the SQL for one condition.
type operator struct {
	check func(v any) error
	emit  func(b *builder, expr string, v any)
}

// operators is the fixed operator table.
var operators = map[string]operator{
	types.OpEq:          nullable("=", "IS NULL"),
	types.OpNot:         nullable("!=", "IS NOT NULL"),
	types.OpLt:          compare("<"),
	types.OpLte:         compare("<="),
	types.OpGt:          compare(">"),
	types.OpGte:         compare(">="),
	types.OpIn:          membership("IN"),
	types.OpNotIn:       membership("NOT IN"),
	types.OpContains:    like("LIKE", "%", "%"),
	types.OpNotContains: like("NOT LIKE", "%", "%"),
	types.OpStartsWith:  like("LIKE", "", "%"),
	types.OpEndsWith:    like("LIKE", "%", ""),
	types.OpNull: {
		check: func(v any) error {
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("%w: expected bool, got %T", ErrInvalidValue, v)
			}
			return nil
		},
		emit: func(b *builder, expr string, v any) {
			if v.(bool) {
				b.WriteString(expr + " IS NULL")
			} else {
				b.WriteString(expr + " IS NOT NULL")
			}
		},
	},
}

// SupportedOperators lists the operator table keys.
func SupportedOperators() []string {
	ops := make([]string, 0, len(operators))
	for op := range operators {
		ops = append(ops, op)
	}
	return ops
}

func compare(sym string) operator {
	return operator{
		check: func(v any) error {
			_, err := scalar(v)
			return err
		},
		emit: func(b *builder, expr string, v any) {
			s, _ := scalar(v)
			b.WriteString(expr + " " + sym + " ?")
			b.args = append(b.args, s)
		},
	}
}

// nullable is compare that turns a nil operand into a NULL test.
func nullable(sym, nullSQL string) operator {
	cmp := compare(sym)
	return operator{
		check: func(v any) error {
			if v == nil {
				return nil
			}
			return cmp.check(v)
		},
		emit: func(b *builder, expr string, v any) {
			if v == nil {
				b.WriteString(expr + " " + nullSQL)
				return
			}
			cmp.emit(b, expr, v)
		},
	}
}

func membership(sym string) operator {
	return operator{
		check: func(v any) error {
			_, err := list(v)
			return err
		},
		emit: func(b *builder, expr string, v any) {
			items, _ := list(v)
			marks := make([]string, len(items))
			for i := range marks {
				marks[i] = "?"
			}
			b.WriteString(expr + " " + sym + " (" + strings.Join(marks, ", ") + ")")
			b.args = append(b.args, items...)
		},
	}
}

func like(sym, prefix, suffix string) operator {
	return operator{
		check: func(v any) error {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, v)
			}
			return nil
		},
		emit: func(b *builder, expr string, v any) {
			b.WriteString(expr + " " + sym + ` ? ESCAPE '\'`)
			b.args = append(b.args, prefix+likeEscaper.Replace(v.(string))+suffix)
		},
	}
}

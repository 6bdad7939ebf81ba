package types

import "strings"

// Filter operators understood by the query builder.
const (
	OpEq          = "$eq"
	OpNot         = "$not"
	OpLt          = "$lt"
	OpLte         = "$lte"
	OpGt          = "$gt"
	OpGte         = "$gte"
	OpIn          = "$in"
	OpNotIn       = "$notIn"
	OpContains    = "$contains"
	OpNotContains = "$notContains"
	OpStartsWith  = "$startsWith"
	OpEndsWith    = "$endsWith"
	OpNull        = "$null"
)

// Filter is a backend-agnostic boolean expression over record fields.
// It is one of Cond, All or Any.
type Filter interface {
	filter()
}

// Cond compares one field against Value with Op.
type Cond struct {
	Field string
	Op    string
	Value any
}

// All is satisfied when every child is (AND).
type All []Filter

// Any is satisfied when at least one child is (OR).
type Any []Filter

func (Cond) filter() {}
func (All) filter()  {}
func (Any) filter()  {}

// Eq is shorthand for Cond{field, OpEq, v}.
func Eq(field string, v any) Cond { return Cond{Field: field, Op: OpEq, Value: v} }

// FilterGroup is a list of conditions combined with AND.
type FilterGroup []Cond

// FilterGroups is a list of groups combined with OR.
type FilterGroups []FilterGroup

// Filter converts g into a tree. Nil or empty groups yield a nil Filter,
// which matches every record.
func (g FilterGroups) Filter() Filter {
	if len(g) == 0 {
		return nil
	}
	anyOf := make(Any, 0, len(g))
	for _, group := range g {
		allOf := make(All, 0, len(group))
		for _, c := range group {
			allOf = append(allOf, c)
		}
		anyOf = append(anyOf, allOf)
	}
	return anyOf
}

// OrderBy sorts by one field.
type OrderBy struct {
	Field string
	Desc  bool
}

// ParseOrderBy parses "field" as ascending and "!field" as descending.
func ParseOrderBy(s string) OrderBy {
	if f, ok := strings.CutPrefix(s, "!"); ok {
		return OrderBy{Field: f, Desc: true}
	}
	return OrderBy{Field: s}
}

// ListOptions carries ordering and pagination for List. Zero values mean
// no limit, no offset and backend order.
type ListOptions struct {
	Limit    int64
	Offset   int64
	OrderBys []OrderBy
}

// NewListOptions builds ListOptions from limit, offset and "field"/"!field"
// order entries.
func NewListOptions(limit, offset int64, orderBys ...string) *ListOptions {
	opts := &ListOptions{Limit: limit, Offset: offset}
	for _, s := range orderBys {
		opts.OrderBys = append(opts.OrderBys, ParseOrderBy(s))
	}
	return opts
}

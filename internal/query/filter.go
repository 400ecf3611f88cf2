// Package query turns flat query-string parameters into structured filters
// that storage backends compile into their own query language.
package query

import (
	"slices"
	"strings"
)

// Op is a predicate operator.
type Op string

const (
	OpEq     Op = "eq"
	OpNe     Op = "ne"
	OpLt     Op = "lt"
	OpSearch Op = "search"
	OpMember Op = "member"
)

// Condition is one predicate. Field names are document field names.
//
//   - eq, ne, lt compare Field with Value.
//   - search matches Value as a case-insensitive substring of any of Fields.
//   - member matches documents whose Field array holds an element with
//     ElemField equal to Value.
type Condition struct {
	Op        Op
	Field     string
	Fields    []string
	ElemField string
	Value     any
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Filter is a conjunction of conditions plus an ordering.
type Filter struct {
	Conditions []Condition
	Sort       []SortKey
}

// Params are flat string parameters, query-string shaped.
type Params map[string]string

// Get returns the trimmed value of the first non-empty key.
func (p Params) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(p[k]); v != "" {
			return v
		}
	}
	return ""
}

// Eq adds an equality condition.
func (f Filter) Eq(field string, value any) Filter {
	f.Conditions = append(slices.Clip(f.Conditions), Condition{Op: OpEq, Field: field, Value: value})
	return f
}

// Ne adds an inequality condition.
func (f Filter) Ne(field string, value any) Filter {
	f.Conditions = append(slices.Clip(f.Conditions), Condition{Op: OpNe, Field: field, Value: value})
	return f
}

// Lt adds a less-than condition.
func (f Filter) Lt(field string, value any) Filter {
	f.Conditions = append(slices.Clip(f.Conditions), Condition{Op: OpLt, Field: field, Value: value})
	return f
}

// Search adds a case-insensitive substring match OR-ed across fields.
func (f Filter) Search(term string, fields ...string) Filter {
	f.Conditions = append(slices.Clip(f.Conditions), Condition{Op: OpSearch, Fields: fields, Value: term})
	return f
}

// Member adds an array-membership condition.
func (f Filter) Member(arrayField, elemField string, value any) Filter {
	f.Conditions = append(slices.Clip(f.Conditions), Condition{Op: OpMember, Field: arrayField, ElemField: elemField, Value: value})
	return f
}

// OrderBy appends sort keys.
func (f Filter) OrderBy(keys ...SortKey) Filter {
	f.Sort = append(slices.Clip(f.Sort), keys...)
	return f
}

// Asc sorts ascending by field.
func Asc(field string) SortKey { return SortKey{Field: field} }

// Desc sorts descending by field.
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

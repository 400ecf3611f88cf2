package sqlite

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tracker/internal/models"
	"tracker/internal/query"
)

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var comparators = map[query.Op]string{
	query.OpEq: "=",
	query.OpNe: "IS NOT",
	query.OpLt: "<",
}

// jsonPath quotes a top-level field as a JSON path literal.
func jsonPath(field string) (string, error) {
	if !fieldName.MatchString(field) {
		return "", fmt.Errorf("invalid field name %q", field)
	}
	return "'$." + field + "'", nil
}

func extract(column, field string) (string, error) {
	path, err := jsonPath(field)
	if err != nil {
		return "", err
	}
	return "json_extract(" + column + ", " + path + ")", nil
}

// compileWhere renders conditions as a WHERE clause with positional args.
func compileWhere(conds []query.Condition) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		switch c.Op {
		case query.OpEq, query.OpNe, query.OpLt:
			expr, err := extract("doc", c.Field)
			if err != nil {
				return "", nil, err
			}
			placeholder := "?"
			if _, ok := c.Value.(time.Time); ok {
				expr = "julianday(" + expr + ")"
				placeholder = "julianday(?)"
			}
			clauses = append(clauses, expr+" "+comparators[c.Op]+" "+placeholder)
			args = append(args, bindValue(c.Value))

		case query.OpSearch:
			parts := make([]string, 0, len(c.Fields))
			for _, field := range c.Fields {
				expr, err := extract("doc", field)
				if err != nil {
					return "", nil, err
				}
				parts = append(parts, "instr(fold(CAST(coalesce("+expr+", '') AS TEXT)), fold(?)) > 0")
				args = append(args, c.Value)
			}
			clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")

		case query.OpMember:
			array, err := jsonPath(c.Field)
			if err != nil {
				return "", nil, err
			}
			elem, err := extract("member.value", c.ElemField)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each(doc, "+array+") AS member WHERE "+elem+" = ?)")
			args = append(args, bindValue(c.Value))

		default:
			return "", nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// compileOrder renders sort keys; ties fall back to id for a stable order.
func compileOrder(keys []query.SortKey) (string, error) {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		expr, err := extract("doc", k.Field)
		if err != nil {
			return "", err
		}
		if isTemporal(k.Field) {
			expr = "julianday(" + expr + ")"
		}
		if k.Desc {
			expr += " DESC"
		}
		parts = append(parts, expr)
	}
	parts = append(parts, "id")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// isTemporal reports whether a field holds an RFC 3339 timestamp.
func isTemporal(field string) bool {
	return strings.HasSuffix(field, "_at") || strings.HasSuffix(field, "_date") || field == "last_login"
}

func bindValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return models.NormalizeTime(t).Format(time.RFC3339Nano)
	}
	return v
}

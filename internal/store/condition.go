package store

import (
	"strings"

	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/sqlutil"
)

// condition is a WHERE fragment with its bound arguments.
type condition struct {
	sql  string
	args []any
}

var (
	matchAll  = condition{sql: "1 = 1"}
	matchNone = condition{sql: "1 = 0"}
)

// likePattern turns a user term into a case-insensitive substring pattern.
// `*` matches any run of characters and `?` exactly one.
func likePattern(term string) string {
	escaped := sqlutil.EscapeLike(term)
	escaped = strings.ReplaceAll(escaped, "*", "%")
	escaped = strings.ReplaceAll(escaped, "?", "_")
	return "%" + escaped + "%"
}

func like(column, term string) condition {
	return condition{
		sql:  column + ` LIKE ? ESCAPE '\'`,
		args: []any{likePattern(term)},
	}
}

func inField(field model.Field) func(string) condition {
	return func(term string) condition {
		if !field.IsField() {
			return anyField(term)
		}
		return like(field.Column(), term)
	}
}

func anyField(term string) condition {
	fields := model.Fields()
	parts := make([]condition, len(fields))
	for i, f := range fields {
		parts[i] = like(f.Column(), term)
	}
	return or(parts...)
}

func mapTerms(terms []string, fn func(string) condition) []condition {
	out := make([]condition, 0, len(terms))
	for _, term := range terms {
		out = append(out, fn(term))
	}
	return out
}

// and joins conditions; with no conditions everything matches.
func and(parts ...condition) condition {
	return join(" AND ", matchAll, parts)
}

// or joins conditions; with no conditions nothing matches.
func or(parts ...condition) condition {
	return join(" OR ", matchNone, parts)
}

func join(op string, empty condition, parts []condition) condition {
	if len(parts) == 0 {
		return empty
	}
	if len(parts) == 1 {
		return parts[0]
	}
	sqls := make([]string, len(parts))
	var args []any
	for i, p := range parts {
		sqls[i] = "(" + p.sql + ")"
		args = append(args, p.args...)
	}
	return condition{sql: strings.Join(sqls, op), args: args}
}

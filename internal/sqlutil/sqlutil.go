// Package sqlutil holds small helpers for the card store's SQL.
package sqlutil

import (
	"database/sql"
	"strings"
)

// InClauseArgs builds the body of an IN (...) list for items. With no items
// it yields NULL, which matches no row.
func InClauseArgs[T any](items []T) (string, []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	args := make([]any, 0, len(items))
	for _, item := range items {
		args = append(args, item)
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", "), args
}

// ScanRows drains and closes rows.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) (out []T, err error) {
	defer func() {
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
	}()
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike quotes LIKE wildcards in s for a pattern used with
// ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package model

import (
	"fmt"
	"strings"
)

// Field identifies a card field for searching, sorting and editing.
// FieldAll is the pseudo-field meaning "any field".
type Field int

const (
	FieldAll Field = iota
	FieldSite
	FieldUsername
	FieldPassword
	FieldNotes
)

var fieldNames = [...]string{
	FieldAll:      "all",
	FieldSite:     "site",
	FieldUsername: "username",
	FieldPassword: "password",
	FieldNotes:    "notes",
}

// Fields returns the editable fields in display order.
func Fields() []Field {
	return []Field{FieldSite, FieldUsername, FieldPassword, FieldNotes}
}

func (f Field) String() string {
	if f >= 0 && int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// IsField reports whether f names a real column rather than FieldAll.
func (f Field) IsField() bool {
	return f > FieldAll && int(f) < len(fieldNames)
}

// Column returns the storage column for f. FieldAll maps to the id column,
// which is also the sort key for "no particular order".
func (f Field) Column() string {
	if f.IsField() {
		return fieldNames[f]
	}
	return "id"
}

// ParseField parses a field name. "all", "any" and "" select FieldAll; "user"
// is accepted for username.
func ParseField(s string) (Field, error) {
	switch key := strings.ToLower(strings.TrimSpace(s)); key {
	case "", "all", "any":
		return FieldAll, nil
	case "user":
		return FieldUsername, nil
	default:
		for i, name := range fieldNames {
			if name == key {
				return Field(i), nil
			}
		}
	}
	return FieldAll, fmt.Errorf("unknown field %q (want site, username, password, notes or all)", s)
}

// Value returns the value of f in c. FieldAll yields "".
func Value(c *Card, f Field) string {
	switch f {
	case FieldSite:
		return c.Site
	case FieldUsername:
		return c.Username
	case FieldPassword:
		return c.Password
	case FieldNotes:
		return c.Notes
	default:
		return ""
	}
}

// SetValue stores v in field f of c.
func SetValue(c *Card, f Field, v string) error {
	switch f {
	case FieldSite:
		c.Site = v
	case FieldUsername:
		c.Username = v
	case FieldPassword:
		c.Password = v
	case FieldNotes:
		c.Notes = v
	default:
		return fmt.Errorf("cannot set %s", f)
	}
	return nil
}

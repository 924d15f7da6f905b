package dbx

import (
	"strconv"
	"strings"
)

// Dialect describes how a database/sql driver differs from the portable
// queries the repositories are written in.
type Dialect struct {
	// Name is the goose dialect name.
	Name string
	// Driver is the database/sql driver name.
	Driver string
	// Numbered reports whether the driver wants $1, $2, ... instead of ?.
	Numbered bool
}

var (
	Postgres = Dialect{Name: "postgres", Driver: "pgx", Numbered: true}
	SQLite   = Dialect{Name: "sqlite3", Driver: "sqlite"}
)

// Rebind rewrites the ? placeholders of query into the dialect's form.
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

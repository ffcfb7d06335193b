package db

import (
	"strconv"
	"strings"
)

// SQL flavor of a *sql.DB. Queries are written once with Placeholder/List.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// List returns count comma-separated placeholders starting at argument first.
func (d Dialect) List(first, count int) string {
	ph := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ph = append(ph, d.Placeholder(first+i))
	}
	return strings.Join(ph, ",")
}

// Rebind rewrites '?' markers into the dialect's placeholders.
func (d Dialect) Rebind(q string) string {
	if d != Postgres {
		return q
	}

	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

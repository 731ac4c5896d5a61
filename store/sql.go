package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect selects placeholder, quoting and column type syntax.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
	MySQL
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// Quote quotes an identifier.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// Placeholder returns the bind parameter for the 1-based position n.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Columns of the draws table, in insert order.
var Columns = []string{
	"contest",
	"drawDate",
	"ball1", "ball2", "ball3", "ball4", "ball5", "ball6",
	"winners6",
	"prize",
}

var (
	space = regexp.MustCompile(`\s+`)
	reg   = regexp.MustCompile(`[^a-zA-Z0-9 _]+`)
)

// TableName normalizes a configured table name: lower case, snake case,
// disallowed characters stripped. A name starting with a digit gets a "tb"
// prefix.
func TableName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	name = reg.ReplaceAllString(name, "")
	name = space.ReplaceAllString(name, "_")
	name = strings.ToLower(name)
	if name == "" {
		return "", fmt.Errorf("table name %q has no usable characters", raw)
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "tb" + name
	}
	return name, nil
}

// GenInsertStmt generates the parameterized insert for one draw row.
func GenInsertStmt(d Dialect, table string) string {
	cols := make([]string, len(Columns))
	params := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = d.Quote(c)
		params[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(table),
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
	)
}

// GenCreateTableSQL generates the CREATE TABLE IF NOT EXISTS statement for
// the draws table. contest is unique; prize is stored in cents.
func GenCreateTableSQL(d Dialect, table string) string {
	var id, ts, bigint string
	switch d {
	case Postgres:
		id, ts, bigint = "SERIAL PRIMARY KEY", "TIMESTAMP", "BIGINT"
	case MySQL:
		id, ts, bigint = "INT AUTO_INCREMENT PRIMARY KEY", "DATETIME", "BIGINT"
	default:
		id, ts, bigint = "INTEGER PRIMARY KEY AUTOINCREMENT", "TIMESTAMP", "INTEGER"
	}

	var builder strings.Builder
	builder.WriteString("CREATE TABLE IF NOT EXISTS ")
	builder.WriteString(d.Quote(table))
	builder.WriteString(" (")
	builder.WriteString(d.Quote("id") + " " + id)
	for _, c := range Columns {
		builder.WriteString(", ")
		builder.WriteString(d.Quote(c))
		builder.WriteByte(' ')
		switch c {
		case "contest":
			builder.WriteString("INTEGER NOT NULL UNIQUE")
		case "drawDate":
			builder.WriteString(ts + " NOT NULL")
		case "winners6":
			builder.WriteString("INTEGER NOT NULL DEFAULT 0")
		case "prize":
			builder.WriteString(bigint + " NOT NULL DEFAULT 0")
		default:
			builder.WriteString("INTEGER NOT NULL")
		}
	}
	builder.WriteByte(')')
	return builder.String()
}

package schema

import "strings"

// Dialect is a relational database flavour
type Dialect string

const (
	PostgreSQL Dialect = "postgresql"
	MySQL      Dialect = "mysql"
	SQLite     Dialect = "sqlite"
)

// Dialects lists every supported dialect
var Dialects = []Dialect{PostgreSQL, MySQL, SQLite}

// NormalizeDialect maps database type spellings onto a Dialect.
// Empty or unknown input returns false.
func NormalizeDialect(dbType string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "postgres", "postgresql", "pg":
		return PostgreSQL, true
	case "mysql", "mariadb":
		return MySQL, true
	case "sqlite", "sqlite3":
		return SQLite, true
	default:
		return "", false
	}
}

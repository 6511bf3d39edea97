package ir

import (
	"io"
	"regexp"
	"strings"

	"github.com/tordrt/schemaforge/internal/schema"
)

// SQLScript is an ordered list of DDL statements for one dialect
type SQLScript struct {
	Dialect    schema.Dialect
	Header     []string
	Statements []SQLStatement
}

// SQLStatement is one top-level DDL statement
type SQLStatement interface {
	renderSQL(p *Printer, d schema.Dialect)
}

// SQLComment is a block of -- comment lines
type SQLComment struct {
	Lines []string
}

// CreateTable is a CREATE TABLE statement with inline column constraints only
type CreateTable struct {
	Name     string
	Comments []string
	Columns  []ColumnDef
}

// ColumnDef is one column line of a CREATE TABLE
type ColumnDef struct {
	Name          string
	Type          string
	PrimaryKey    bool
	NotNull       bool
	Unique        bool
	AutoIncrement bool
	Default       string
	References    *ColumnRef
}

// ColumnRef is an inline REFERENCES clause
type ColumnRef struct {
	Table    string
	Column   string
	OnDelete string
	OnUpdate string
}

// CreateIndex is a CREATE [UNIQUE] INDEX statement
type CreateIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

// AddForeignKey is an ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY statement
type AddForeignKey struct {
	Table      string
	Constraint string
	Column     string
	RefTable   string
	RefColumn  string
	OnDelete   string
	OnUpdate   string
}

// Render writes the script. Statements are separated by a blank line.
func (s *SQLScript) Render(w io.Writer) error {
	p := NewPrinter(w, "  ")
	for _, line := range s.Header {
		p.Line("-- %s", line)
	}
	for i, stmt := range s.Statements {
		if i > 0 || len(s.Header) > 0 {
			p.Blank()
		}
		stmt.renderSQL(p, s.Dialect)
	}
	return p.Err()
}

func (c SQLComment) renderSQL(p *Printer, _ schema.Dialect) {
	for _, line := range c.Lines {
		p.Line("-- %s", line)
	}
}

func (t CreateTable) renderSQL(p *Printer, d schema.Dialect) {
	for _, line := range t.Comments {
		p.Line("-- %s", line)
	}
	p.Line("CREATE TABLE %s (", QuoteIdent(t.Name, d))
	p.Indent()
	for i, col := range t.Columns {
		line := col.render(d)
		if i < len(t.Columns)-1 {
			line += ","
		}
		p.Line("%s", line)
	}
	p.Dedent()
	p.Line(");")
}

func (c ColumnDef) render(d schema.Dialect) string {
	parts := []string{QuoteIdent(c.Name, d), c.Type}
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
		if c.AutoIncrement && d == schema.SQLite {
			parts = append(parts, "AUTOINCREMENT")
		}
	}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if c.Unique && !c.PrimaryKey {
		parts = append(parts, "UNIQUE")
	}
	if c.Default != "" {
		parts = append(parts, "DEFAULT "+c.Default)
	}
	if c.AutoIncrement && d == schema.MySQL {
		parts = append(parts, "AUTO_INCREMENT")
	}
	if c.References != nil {
		parts = append(parts, "REFERENCES "+QuoteIdent(c.References.Table, d)+" ("+QuoteIdent(c.References.Column, d)+")")
		parts = append(parts, "ON DELETE "+c.References.OnDelete, "ON UPDATE "+c.References.OnUpdate)
	}
	return strings.Join(parts, " ")
}

func (ix CreateIndex) renderSQL(p *Printer, d schema.Dialect) {
	kw := "CREATE INDEX"
	if ix.Unique {
		kw = "CREATE UNIQUE INDEX"
	}
	p.Line("%s %s ON %s (%s);", kw, QuoteIdent(ix.Name, d), QuoteIdent(ix.Table, d), quoteList(ix.Columns, d))
}

func (fk AddForeignKey) renderSQL(p *Printer, d schema.Dialect) {
	p.Line("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s ON UPDATE %s;",
		QuoteIdent(fk.Table, d),
		QuoteIdent(fk.Constraint, d),
		QuoteIdent(fk.Column, d),
		QuoteIdent(fk.RefTable, d),
		QuoteIdent(fk.RefColumn, d),
		fk.OnDelete,
		fk.OnUpdate)
}

var simpleIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var reservedWords = map[string]bool{
	"all": true, "alter": true, "and": true, "as": true, "asc": true, "by": true,
	"case": true, "check": true, "column": true, "constraint": true, "create": true,
	"default": true, "delete": true, "desc": true, "drop": true, "else": true, "end": true,
	"false": true, "foreign": true, "from": true, "grant": true, "group": true, "in": true,
	"index": true, "insert": true, "into": true, "is": true, "join": true, "key": true,
	"limit": true, "not": true, "null": true, "offset": true, "on": true, "or": true,
	"order": true, "primary": true, "references": true, "select": true, "table": true,
	"then": true, "to": true, "true": true, "union": true, "unique": true, "update": true,
	"user": true, "values": true, "when": true, "where": true,
}

// QuoteIdent quotes an identifier only when it is reserved or not a plain
// lowercase identifier
func QuoteIdent(name string, d schema.Dialect) string {
	if simpleIdent.MatchString(name) && !reservedWords[name] {
		return name
	}
	if d == schema.MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteSQLString renders a string literal
func QuoteSQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteList(names []string, d schema.Dialect) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n, d)
	}
	return strings.Join(quoted, ", ")
}

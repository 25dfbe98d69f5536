// Package ddl generates the DDL statements for the warehouse tables. The
// builders stick to the SQL subset shared by the supported backends: simple
// double-quoted identifiers, CREATE/DROP TABLE, and CREATE (UNIQUE) INDEX.
// The warehouse is fully rebuilt on every run, so every table is dropped
// before it is recreated.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL returns a CREATE TABLE statement of the form:
//
//	CREATE TABLE "t" (
//	  "col1" TYPE [NOT NULL],
//	  "col2" TYPE,
//	  PRIMARY KEY ("pk")
//	);
func BuildCreateTableSQL(t TableDef) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s: at least one column is required", name)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cn := strings.TrimSpace(c.Name)
		if cn == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", cn)
		}

		var sb strings.Builder
		sb.WriteString(QuoteIdent(cn))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, QuoteIdent(cn))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		QuoteIdent(name),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL returns a DROP TABLE IF EXISTS statement.
func BuildDropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", QuoteIdent(table))
}

// BuildCreateIndexSQL returns a CREATE (UNIQUE) INDEX statement.
func BuildCreateIndexSQL(ix IndexDef) (string, error) {
	if strings.TrimSpace(ix.Name) == "" || strings.TrimSpace(ix.Table) == "" {
		return "", fmt.Errorf("ddl: index name and table must not be empty")
	}
	if len(ix.Columns) == 0 {
		return "", fmt.Errorf("ddl: index %s: at least one column is required", ix.Name)
	}
	cols := make([]string, len(ix.Columns))
	for i, c := range ix.Columns {
		cols[i] = QuoteIdent(c)
	}
	unique := ""
	if ix.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf(
		"CREATE %sINDEX IF NOT EXISTS %s ON %s (%s);",
		unique,
		QuoteIdent(ix.Name),
		QuoteIdent(ix.Table),
		strings.Join(cols, ", "),
	), nil
}

// QuoteIdent double-quotes an identifier, escaping embedded quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

package main

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// Column is one entry of a table's full column catalog, richer than
// the plain name list resolveTableColumns returns: it also carries
// the declared type and primary-key/autoincrement flags needed by
// SELECT * projection and schema introspection.
type Column struct {
	Name            string
	Type            string
	Ordinal         int
	IsPrimaryKey    bool
	IsAutoIncrement bool
}

// resolveColumnCatalog parses a full CREATE TABLE statement with a
// real SQL grammar and returns its column catalog. SQLite's DDL
// dialect diverges from the grammar sqlparser implements (MySQL) in a
// few small, well-known ways, so the text is normalized first: double
// quoted identifiers are stripped (SQLite permits them, the grammar
// does not expect them on table/column names) and the
// "PRIMARY KEY AUTOINCREMENT" idiom is rewritten to the form the
// grammar accepts.
func resolveColumnCatalog(createSQL string) ([]Column, error) {
	normalized := normalizeSQLiteDDL(createSQL)

	stmt, err := sqlparser.Parse(normalized)
	if err != nil {
		return nil, malformedErr("resolve_column_catalog", err, map[string]interface{}{"sql": createSQL})
	}

	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != "create" || ddl.TableSpec == nil {
		return nil, unsupportedErr("resolve_column_catalog", errUnsupportedQuery, map[string]interface{}{"sql": createSQL})
	}

	cols := make([]Column, len(ddl.TableSpec.Columns))
	for i, c := range ddl.TableSpec.Columns {
		isAutoIncrement := bool(c.Type.Autoincrement)
		isIntegerPrimaryKey := isAutoIncrement && strings.EqualFold(c.Type.Type, "INTEGER")
		cols[i] = Column{
			Name:            c.Name.String(),
			Type:            c.Type.Type,
			Ordinal:         i,
			IsPrimaryKey:    isIntegerPrimaryKey,
			IsAutoIncrement: isAutoIncrement,
		}
	}
	return cols, nil
}

// normalizeSQLiteDDL rewrites a SQLite CREATE TABLE statement's text
// just enough for the MySQL-dialect grammar to accept it.
func normalizeSQLiteDDL(sql string) string {
	normalized := strings.ReplaceAll(sql, `"`, "")
	normalized = strings.ReplaceAll(normalized, "primary key autoincrement", "AUTO_INCREMENT PRIMARY KEY")
	normalized = strings.ReplaceAll(normalized, "PRIMARY KEY AUTOINCREMENT", "AUTO_INCREMENT PRIMARY KEY")
	normalized = strings.ReplaceAll(normalized, "Primary Key Autoincrement", "AUTO_INCREMENT PRIMARY KEY")
	return strings.TrimSpace(normalized)
}

// columnNames returns the plain names of a column catalog, in
// declared order.
func columnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

package main

import "strings"

// SchemaEntry is one decoded row of the sqlite_master table: a table,
// index, view, or trigger definition.
type SchemaEntry struct {
	Type     string // "table", "index", "view", "trigger"
	Name     string
	TblName  string
	RootPage int64
	SQL      string
}

// loadSchema scans the sqlite_master table B-tree rooted at page 1,
// descending into interior pages if there are any, and decodes every
// row into a SchemaEntry.
func loadSchema(pr *PageReader, enc TextEncoding) ([]SchemaEntry, error) {
	rows, err := scanTable(pr, 1, enc, nil)
	if err != nil {
		return nil, err
	}
	entries := make([]SchemaEntry, 0, len(rows))
	for _, r := range rows {
		if len(r.Values) < 5 {
			return nil, malformedErr("load_schema", errHeaderOverrun, map[string]interface{}{"reason": "sqlite_master row has fewer than 5 columns"})
		}
		entries = append(entries, SchemaEntry{
			Type:     r.Values[0].String(),
			Name:     r.Values[1].String(),
			TblName:  r.Values[2].String(),
			RootPage: r.Values[3].Int,
			SQL:      r.Values[4].String(),
		})
	}
	return entries, nil
}

// findTable returns the schema entry for the named table, or a
// NotFound EngineError if no such table exists.
func findTable(entries []SchemaEntry, name string) (*SchemaEntry, error) {
	for i := range entries {
		if entries[i].Type == "table" && strings.EqualFold(entries[i].Name, name) {
			return &entries[i], nil
		}
	}
	return nil, notFoundErr("find_table", errTableNotFound, map[string]interface{}{"table": name})
}

// findIndex returns an index over table whose first indexed column is
// column, if one exists. The lightweight C8 resolver is used to read
// each candidate index's column list out of its CREATE INDEX text.
func findIndex(entries []SchemaEntry, table, column string) (*SchemaEntry, error) {
	for i := range entries {
		if entries[i].Type != "index" || !strings.EqualFold(entries[i].TblName, table) {
			continue
		}
		cols, err := resolveIndexColumns(entries[i].SQL)
		if err != nil || len(cols) == 0 {
			continue
		}
		if strings.EqualFold(cols[0], column) {
			return &entries[i], nil
		}
	}
	return nil, notFoundErr("find_index", errIndexNotFound, map[string]interface{}{"table": table, "column": column})
}

// countTables returns the number of user tables in the schema,
// excluding internal sqlite_% bookkeeping tables — the corrected
// definition of ".dbinfo"'s "number of tables" line.
func countTables(entries []SchemaEntry) int {
	n := 0
	for _, e := range entries {
		if e.Type == "table" && !isSqliteInternalName(e.Name) {
			n++
		}
	}
	return n
}

func isSqliteInternalName(name string) bool {
	return len(name) >= 7 && name[:7] == "sqlite_"
}

package main

import (
	"fmt"
	"io"
	"strings"
)

// Row is a projected query result row: the subset (and order) of
// column values a SELECT asked for.
type Row struct {
	Values []Value
}

// OutputFormatter renders query results for presentation. The CLI
// frontend is the only caller; the core engine never formats output
// itself.
type OutputFormatter interface {
	FormatValue(v Value) string
	FormatRow(row *Row) string
	FormatTable(rows []*Row, columns []string) string
	FormatCount(count int) string
}

// ConsoleFormatter renders rows the way the reference CLI does:
// pipe-separated values, one row per line.
type ConsoleFormatter struct {
	io.Writer
}

// NewConsoleFormatter builds a ConsoleFormatter writing to w.
func NewConsoleFormatter(w io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{Writer: w}
}

func (cf *ConsoleFormatter) FormatValue(v Value) string {
	return v.String()
}

func (cf *ConsoleFormatter) FormatRow(row *Row) string {
	if row == nil {
		return ""
	}
	parts := make([]string, len(row.Values))
	for i, v := range row.Values {
		parts[i] = cf.FormatValue(v)
	}
	return strings.Join(parts, "|")
}

func (cf *ConsoleFormatter) FormatTable(rows []*Row, columns []string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(cf.FormatRow(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func (cf *ConsoleFormatter) FormatCount(count int) string {
	return fmt.Sprintf("%d", count)
}

// JSONFormatter renders rows as a JSON array of objects keyed by
// column name, for callers that want machine-readable output.
type JSONFormatter struct {
	io.Writer
}

// NewJSONFormatter builds a JSONFormatter writing to w.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{Writer: w}
}

func (jf *JSONFormatter) FormatValue(v Value) string {
	switch v.Type {
	case ValueTypeNull:
		return "null"
	case ValueTypeText:
		return fmt.Sprintf("%q", v.Str)
	case ValueTypeBlob:
		return fmt.Sprintf("%q", string(v.Blob))
	default:
		return v.String()
	}
}

func (jf *JSONFormatter) FormatRow(row *Row) string {
	if row == nil {
		return "{}"
	}
	parts := make([]string, len(row.Values))
	for i, v := range row.Values {
		parts[i] = jf.FormatValue(v)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

func (jf *JSONFormatter) FormatTable(rows []*Row, columns []string) string {
	rowStrings := make([]string, len(rows))
	for i, row := range rows {
		pairs := make([]string, 0, len(columns))
		for j, col := range columns {
			if j < len(row.Values) {
				pairs = append(pairs, fmt.Sprintf("%q: %s", col, jf.FormatValue(row.Values[j])))
			}
		}
		rowStrings[i] = fmt.Sprintf("{%s}", strings.Join(pairs, ", "))
	}
	return fmt.Sprintf("[%s]", strings.Join(rowStrings, ", "))
}

func (jf *JSONFormatter) FormatCount(count int) string {
	return fmt.Sprintf(`{"count": %d}`, count)
}

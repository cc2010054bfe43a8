package main

import "strings"

// resolveTableColumns extracts the ordered column names from a
// CREATE TABLE statement's text using a lightweight, purpose-built
// scanner rather than a full SQL grammar: split the parenthesized
// column-def list on top-level commas (tracking paren depth so
// DECIMAL(10,2) doesn't split), then take the first identifier token
// of each definition, stripping any quoting.
func resolveTableColumns(createSQL string) ([]string, error) {
	body, err := extractParenBody(createSQL)
	if err != nil {
		return nil, err
	}
	defs := splitTopLevel(body)

	var cols []string
	for _, def := range defs {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		upper := strings.ToUpper(def)
		if strings.HasPrefix(upper, "PRIMARY KEY") ||
			strings.HasPrefix(upper, "UNIQUE") ||
			strings.HasPrefix(upper, "FOREIGN KEY") ||
			strings.HasPrefix(upper, "CHECK") ||
			strings.HasPrefix(upper, "CONSTRAINT") {
			continue
		}
		name, _ := firstIdentifier(def)
		if name == "" {
			continue
		}
		cols = append(cols, name)
	}
	return cols, nil
}

// resolveIndexColumns extracts the ordered column names from a CREATE
// INDEX statement's column list, e.g. "CREATE INDEX idx ON t (a, b)".
func resolveIndexColumns(createSQL string) ([]string, error) {
	body, err := extractParenBody(createSQL)
	if err != nil {
		return nil, err
	}
	defs := splitTopLevel(body)
	var cols []string
	for _, def := range defs {
		name, _ := firstIdentifier(def)
		if name != "" {
			cols = append(cols, name)
		}
	}
	return cols, nil
}

// columnOrdinal returns the zero-based position of column within a
// CREATE TABLE statement's column list, for resolving an unqualified
// column reference in a WHERE/SELECT clause down to an index into
// Record.Values.
func columnOrdinal(createSQL, column string) (int, error) {
	cols, err := resolveTableColumns(createSQL)
	if err != nil {
		return 0, err
	}
	for i, c := range cols {
		if strings.EqualFold(c, column) {
			return i, nil
		}
	}
	return 0, notFoundErr("column_ordinal", errTableNotFound, map[string]interface{}{"column": column})
}

// extractParenBody returns the text strictly between the first
// top-level '(' and its matching ')' in s.
func extractParenBody(s string) (string, error) {
	start := strings.IndexByte(s, '(')
	if start < 0 {
		return "", malformedErr("extract_paren_body", errHeaderOverrun, map[string]interface{}{"reason": "no opening paren in CREATE statement"})
	}
	depth := 0
	inQuote := byte(0)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '"', '`', '\'':
			inQuote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[start+1 : i], nil
			}
		}
	}
	return "", malformedErr("extract_paren_body", errHeaderOverrun, map[string]interface{}{"reason": "unbalanced parens in CREATE statement"})
}

// splitTopLevel splits s on commas that are not nested inside parens
// or quotes.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	inQuote := byte(0)
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '"', '`', '\'':
			inQuote = c
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// firstIdentifier returns the first identifier token in s, unquoting
// double-quote or backtick delimited identifiers, along with the
// index immediately following it.
func firstIdentifier(s string) (string, int) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	if i >= len(s) {
		return "", i
	}
	if s[i] == '"' || s[i] == '`' {
		q := s[i]
		j := i + 1
		for j < len(s) && s[j] != q {
			j++
		}
		return s[i+1 : j], j + 1
	}
	j := i
	for j < len(s) && isIdentByte(s[j]) {
		j++
	}
	return s[i:j], j
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

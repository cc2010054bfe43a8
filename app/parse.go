package main

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// parseQuery is the SQL-surface collaborator: it turns the CLI's raw
// SQL argument into a structured Query, per the restricted grammar
// this engine supports (SELECT COUNT(*), SELECT with an optional
// single `column = 'literal'` WHERE). Grammar outside that subset
// surfaces as an Unsupported EngineError rather than a partial
// best-effort translation.
func parseQuery(sql string) (*Query, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, malformedErr("parse_query", err, map[string]interface{}{"sql": sql})
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, unsupportedErr("parse_query", errUnsupportedQuery, map[string]interface{}{"stmt": sql})
	}

	table, err := extractTableName(sel)
	if err != nil {
		return nil, err
	}

	where, err := extractWherePredicate(sel.Where)
	if err != nil {
		return nil, err
	}

	star := false
	var cols []string
	for _, expr := range sel.SelectExprs {
		switch e := expr.(type) {
		case *sqlparser.StarExpr:
			star = true
		case *sqlparser.AliasedExpr:
			switch inner := e.Expr.(type) {
			case *sqlparser.FuncExpr:
				if strings.EqualFold(inner.Name.String(), "count") {
					return &Query{Kind: QueryCountRows, Table: table}, nil
				}
				return nil, unsupportedErr("parse_query", errUnsupportedQuery, map[string]interface{}{"func": inner.Name.String()})
			case *sqlparser.ColName:
				cols = append(cols, inner.Name.String())
			default:
				return nil, unsupportedErr("parse_query", errUnsupportedQuery, map[string]interface{}{"expr": sql})
			}
		default:
			return nil, unsupportedErr("parse_query", errUnsupportedQuery, map[string]interface{}{"expr": sql})
		}
	}

	return &Query{Kind: QuerySelect, Table: table, Columns: cols, Star: star, Where: where}, nil
}

func extractTableName(sel *sqlparser.Select) (string, error) {
	if len(sel.From) == 0 {
		return "", unsupportedErr("extract_table_name", errUnsupportedQuery, nil)
	}
	aliased, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", unsupportedErr("extract_table_name", errUnsupportedQuery, nil)
	}
	tableName, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", unsupportedErr("extract_table_name", errUnsupportedQuery, nil)
	}
	return tableName.Name.String(), nil
}

// extractWherePredicate handles exactly the grammar this engine
// supports: a single `column = 'literal'` equality. Anything richer
// (AND/OR, other operators, numeric literals compared against text
// columns) is Unsupported rather than silently mishandled.
func extractWherePredicate(where *sqlparser.Where) (*WherePredicate, error) {
	if where == nil {
		return nil, nil
	}
	comp, ok := where.Expr.(*sqlparser.ComparisonExpr)
	if !ok || comp.Operator != "=" {
		return nil, unsupportedErr("extract_where_predicate", errUnsupportedQuery, nil)
	}
	colName, ok := comp.Left.(*sqlparser.ColName)
	if !ok {
		return nil, unsupportedErr("extract_where_predicate", errUnsupportedQuery, nil)
	}
	val, ok := comp.Right.(*sqlparser.SQLVal)
	if !ok {
		return nil, unsupportedErr("extract_where_predicate", errUnsupportedQuery, nil)
	}
	return &WherePredicate{Column: colName.Name.String(), Value: string(val.Val)}, nil
}

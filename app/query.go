package main

import "context"

// QueryKind tags the shape of a parsed query, matching the
// collaborator parser's structured output contract.
type QueryKind int

const (
	QueryDbInfo QueryKind = iota
	QueryCountRows
	QuerySelect
)

// WherePredicate is a single column = literal equality predicate, the
// only WHERE shape this engine evaluates.
type WherePredicate struct {
	Column string
	Value  string
}

// Query is the structured value the SQL-surface collaborator produces
// and the evaluator consumes. It deliberately carries no SQL syntax —
// only what the evaluator needs to act.
type Query struct {
	Kind    QueryKind
	Table   string
	Columns []string
	Star    bool
	Where   *WherePredicate
}

// Engine ties the schema walker, B-tree scanners, and page reader
// together into the query evaluator (C9).
type Engine struct {
	pr     *PageReader
	header *DatabaseHeader
	schema []SchemaEntry
	config *EngineConfig
	log    Logger
}

// NewEngine builds an Engine over an already-opened page reader and
// parsed file header, loading the schema once up front.
func NewEngine(pr *PageReader, header *DatabaseHeader, config *EngineConfig, log Logger) (*Engine, error) {
	schema, err := loadSchema(pr, header.TextEncoding)
	if err != nil {
		return nil, err
	}
	return &Engine{pr: pr, header: header, schema: schema, config: config, log: log}, nil
}

// DbInfoResult is the evaluated form of a DbInfo query.
type DbInfoResult struct {
	PageSize   uint32
	TableCount int
}

// EvalDbInfo answers the ".dbinfo" command.
func (e *Engine) EvalDbInfo() DbInfoResult {
	return DbInfoResult{
		PageSize:   e.header.PageSize,
		TableCount: countTables(e.schema),
	}
}

// TableNames answers the ".tables" command: every user table name, in
// schema order.
func (e *Engine) TableNames() []string {
	var names []string
	for _, entry := range e.schema {
		if entry.Type == "table" && !isSqliteInternalName(entry.Name) {
			names = append(names, entry.Name)
		}
	}
	return names
}

// EvalCountRows answers a `SELECT COUNT(*) FROM <table>` query.
func (e *Engine) EvalCountRows(table string) (int, error) {
	entry, err := findTable(e.schema, table)
	if err != nil {
		return 0, err
	}
	return countTableRows(e.pr, entry.RootPage)
}

// EvalSelect answers a `SELECT <cols> FROM <table> [WHERE col = v]`
// query, choosing between an indexed lookup and a full scan.
func (e *Engine) EvalSelect(ctx context.Context, q *Query) ([]*Row, []string, error) {
	entry, err := findTable(e.schema, q.Table)
	if err != nil {
		return nil, nil, err
	}

	colNames := q.Columns
	if q.Star {
		catalog, err := resolveColumnCatalog(entry.SQL)
		if err != nil {
			return nil, nil, err
		}
		colNames = columnNames(catalog)
	}
	ordinals := make([]int, len(colNames))
	for i, name := range colNames {
		ord, err := columnOrdinal(entry.SQL, name)
		if err != nil {
			return nil, nil, err
		}
		ordinals[i] = ord
	}

	records, usedIndex, err := e.fetchCandidateRecords(ctx, entry, q)
	if err != nil {
		return nil, nil, err
	}
	if e.log != nil {
		e.log.Debugf("evaluated select on %s: index=%v rows=%d", q.Table, usedIndex, len(records))
	}

	rows := make([]*Row, 0, len(records))
	for _, rec := range records {
		values := projectRecord(rec, entry, ordinals)
		rows = append(rows, &Row{Values: values})
	}
	return rows, colNames, nil
}

// projectRecord extracts the requested ordinals from a decoded
// record, substituting the rowid for a declared INTEGER PRIMARY KEY
// column (invariant 5: such columns store NULL in the record itself).
func projectRecord(rec *Record, entry *SchemaEntry, ordinals []int) []Value {
	values := make([]Value, len(ordinals))
	for i, ord := range ordinals {
		if ord < len(rec.Values) {
			v := rec.Values[ord]
			if v.Type == ValueTypeNull {
				v = Value{Type: ValueTypeInteger, Int: rec.RowID}
			}
			values[i] = v
		} else {
			values[i] = Value{Type: ValueTypeNull}
		}
	}
	return values
}

// fetchCandidateRecords resolves the row set for a SELECT: an indexed
// lookup when an index matches the predicate column and the value is
// text, otherwise a full scan with an optional equality predicate.
func (e *Engine) fetchCandidateRecords(ctx context.Context, entry *SchemaEntry, q *Query) ([]*Record, bool, error) {
	if q.Where == nil {
		recs, err := scanTable(e.pr, entry.RootPage, e.header.TextEncoding, nil)
		return recs, false, err
	}

	idxEntry, err := findIndex(e.schema, entry.Name, q.Where.Column)
	if err == nil {
		rowids, serr := searchIndex(e.pr, idxEntry.RootPage, e.header.TextEncoding, Value{Type: ValueTypeText, Str: q.Where.Value})
		if serr != nil {
			return nil, false, serr
		}
		maxWorkers := e.config.MaxConcurrency
		if len(rowids) <= 1 {
			maxWorkers = 1
		}
		recs, ferr := fetchRowsByRowidsParallel(ctx, e.pr, entry.RootPage, e.header.TextEncoding, rowids, maxWorkers)
		if ferr != nil {
			return nil, false, ferr
		}
		return recs, true, nil
	}

	predicateOrd, perr := columnOrdinal(entry.SQL, q.Where.Column)
	if perr != nil {
		return nil, false, perr
	}
	target := q.Where.Value
	predicate := func(rec *Record) bool {
		if predicateOrd >= len(rec.Values) {
			return false
		}
		v := rec.Values[predicateOrd]
		if v.Type == ValueTypeNull {
			v = Value{Type: ValueTypeInteger, Int: rec.RowID}
		}
		return v.String() == target
	}
	recs, err := scanTable(e.pr, entry.RootPage, e.header.TextEncoding, predicate)
	return recs, false, err
}

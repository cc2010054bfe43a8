package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

// OpenDatabase opens dbPath read-only, parses its file header, and
// builds a ready-to-query Engine. The returned ResourceManager owns
// the file handle; callers must Close it on every exit path.
func OpenDatabase(dbPath string, config *EngineConfig, log Logger) (*Engine, *ResourceManager, error) {
	rm := NewResourceManager()

	f, err := os.Open(dbPath)
	if err != nil {
		return nil, nil, ioErr("open_database", err, map[string]interface{}{"path": dbPath})
	}
	rm.Add(f)

	headerBuf := make([]byte, fileHeaderSize)
	if _, err := io.ReadFull(f, headerBuf); err != nil {
		rm.Close()
		return nil, nil, ioErr("read_file_header", err, map[string]interface{}{"path": dbPath})
	}

	header, err := parseDatabaseHeader(headerBuf)
	if err != nil {
		rm.Close()
		return nil, nil, err
	}

	pr := NewPageReader(f, header.PageSize)
	engine, err := NewEngine(pr, header, config, log)
	if err != nil {
		rm.Close()
		return nil, nil, err
	}
	return engine, rm, nil
}

// RunCommand dispatches a single CLI command (".dbinfo", ".tables", or
// a raw SQL string) against an open Engine, writing results through
// formatter to w.
func RunCommand(ctx context.Context, engine *Engine, formatter OutputFormatter, w io.Writer, command string) error {
	switch command {
	case ".dbinfo":
		info := engine.EvalDbInfo()
		fmt.Fprintf(w, "database page size: %d\n", info.PageSize)
		fmt.Fprintf(w, "number of tables: %d\n", info.TableCount)
		return nil
	case ".tables":
		for _, name := range engine.TableNames() {
			fmt.Fprintf(w, "%s ", name)
		}
		fmt.Fprintln(w)
		return nil
	default:
		return runSQL(ctx, engine, formatter, w, command)
	}
}

func runSQL(ctx context.Context, engine *Engine, formatter OutputFormatter, w io.Writer, sql string) error {
	q, err := parseQuery(sql)
	if err != nil {
		return err
	}

	switch q.Kind {
	case QueryCountRows:
		count, err := engine.EvalCountRows(q.Table)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, formatter.FormatCount(count))
		return nil
	case QuerySelect:
		rows, cols, err := engine.EvalSelect(ctx, q)
		if err != nil {
			return err
		}
		fmt.Fprint(w, formatter.FormatTable(rows, cols))
		return nil
	default:
		return unsupportedErr("run_sql", errUnsupportedQuery, map[string]interface{}{"sql": sql})
	}
}

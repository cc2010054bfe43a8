package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args))
}

// run implements the CLI frontend: argv parsing, command dispatch,
// and diagnostic-line-then-exit-0 behavior when opening the database
// or running the command fails, matching the reference tool's legacy
// exit contract. Missing arguments print a usage line to stderr and
// return 1.
func run(args []string) int {
	if len(args) < 3 {
		argErr := newErr(KindArgMissing, "parse_argv", errMissingArgument, map[string]interface{}{"got": len(args) - 1, "want": 2})
		fmt.Fprintln(os.Stderr, "usage: sqlitereader <database file path> <command>")
		fmt.Fprintln(os.Stderr, argErr.Error())
		return 1
	}

	dbPath := args[1]
	command := args[2]

	debug := os.Getenv("SQLITEREADER_DEBUG") == "1"
	log := NewLogger(debug)

	config := DefaultEngineConfig()
	if cfgPath := os.Getenv("SQLITEREADER_CONFIG"); cfgPath != "" {
		if err := LoadEngineConfigFile(cfgPath, config); err != nil {
			log.Warnf("ignoring config file %s: %v", cfgPath, err)
		}
	}

	engine, rm, err := OpenDatabase(dbPath, config, log)
	if err != nil {
		printDiagnostic(err)
		return 0
	}
	defer rm.Close()

	formatter := NewConsoleFormatter(os.Stdout)
	if err := RunCommand(context.Background(), engine, formatter, os.Stdout, command); err != nil {
		printDiagnostic(err)
		return 0
	}
	return 0
}

// printDiagnostic prints a single diagnostic line for a query
// failure, per the error handling design's NotFound message shapes.
func printDiagnostic(err error) {
	var ee *EngineError
	if errors.As(err, &ee) {
		switch ee.Kind {
		case KindNotFound:
			if table, ok := ee.Context["table"]; ok {
				fmt.Printf("Table not found: %v\n", table)
				return
			}
			if column, ok := ee.Context["column"]; ok {
				fmt.Printf("Column not found: %v\n", column)
				return
			}
		}
	}
	fmt.Println(err.Error())
}

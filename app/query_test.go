package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildApplesEngine(t *testing.T, pageSize int) *Engine {
	t.Helper()
	db := buildApplesDB(pageSize)
	pr := NewPageReader(memReaderAt(db), uint32(pageSize))
	header, err := parseDatabaseHeader(db[:fileHeaderSize])
	require.NoError(t, err)
	engine, err := NewEngine(pr, header, DefaultEngineConfig(), nopLogger{})
	require.NoError(t, err)
	return engine
}

func TestEvalDbInfo(t *testing.T) {
	engine := buildApplesEngine(t, 4096)
	info := engine.EvalDbInfo()
	assert.Equal(t, uint32(4096), info.PageSize)
	assert.Equal(t, 1, info.TableCount)
}

func TestEvalCountRows(t *testing.T) {
	engine := buildApplesEngine(t, 512)
	n, err := engine.EvalCountRows("apples")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEvalCountRowsTableNotFound(t *testing.T) {
	engine := buildApplesEngine(t, 512)
	_, err := engine.EvalCountRows("nope")
	require.Error(t, err)
	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindNotFound, ee.Kind)
}

func TestEvalSelectProjection(t *testing.T) {
	engine := buildApplesEngine(t, 512)
	q := &Query{Kind: QuerySelect, Table: "apples", Columns: []string{"name", "color"}}
	rows, cols, err := engine.EvalSelect(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "color"}, cols)
	require.Len(t, rows, 3)
	assert.Equal(t, "Granny Smith", rows[0].Values[0].Str)
	assert.Equal(t, "Light Green", rows[0].Values[1].Str)
}

func TestEvalSelectWithWhereFullScan(t *testing.T) {
	engine := buildApplesEngine(t, 512)
	q := &Query{
		Kind:    QuerySelect,
		Table:   "apples",
		Columns: []string{"name"},
		Where:   &WherePredicate{Column: "color", Value: "Red"},
	}
	rows, _, err := engine.EvalSelect(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Fuji", rows[0].Values[0].Str)
}

func TestEvalSelectWithIndexedWhere(t *testing.T) {
	db := buildColorIndexDB(512)
	pr := NewPageReader(memReaderAt(db), 512)
	header, err := parseDatabaseHeader(db[:fileHeaderSize])
	require.NoError(t, err)
	engine, err := NewEngine(pr, header, DefaultEngineConfig(), nopLogger{})
	require.NoError(t, err)

	q := &Query{
		Kind:    QuerySelect,
		Table:   "apples",
		Columns: []string{"name"},
		Where:   &WherePredicate{Column: "color", Value: "Red"},
	}
	rows, _, err := engine.EvalSelect(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Fuji", rows[0].Values[0].Str)
}

func TestEvalSelectStarUsesIntegerPrimaryKeyRowid(t *testing.T) {
	engine := buildApplesEngine(t, 512)
	q := &Query{Kind: QuerySelect, Table: "apples", Star: true}
	rows, cols, err := engine.EvalSelect(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "color"}, cols)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0].Values[0].Int)
	assert.Equal(t, int64(2), rows[1].Values[0].Int)
}

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildColorIndexDB(pageSize int) []byte {
	schema := []schemaEntrySpec{
		{typ: "table", name: "apples", tblName: "apples", rootPage: 2, sql: "CREATE TABLE apples (id INTEGER PRIMARY KEY, name TEXT, color TEXT)"},
		{typ: "index", name: "idx_color", tblName: "apples", rootPage: 3, sql: "CREATE INDEX idx_color ON apples (color)"},
	}
	tablePage := buildLeafPage(pageSize, 0, PageKindTableLeaf, applesRowCells())

	// Index keys must be stored in ascending byte order on a leaf page.
	indexCells := [][]byte{
		indexLeafCell("Blush Red", 3),
		indexLeafCell("Light Green", 1),
		indexLeafCell("Red", 2),
	}
	indexPage := buildLeafPage(pageSize, 0, PageKindIndexLeaf, indexCells)

	return buildSchemaDB(pageSize, schema, map[int][]byte{2: tablePage, 3: indexPage})
}

func TestSearchIndexLeafMatch(t *testing.T) {
	db := buildColorIndexDB(512)
	pr := NewPageReader(memReaderAt(db), 512)

	rowids, err := searchIndex(pr, 3, TextEncodingUTF8, Value{Type: ValueTypeText, Str: "Red"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, rowids)
}

func TestSearchIndexNoMatch(t *testing.T) {
	db := buildColorIndexDB(512)
	pr := NewPageReader(memReaderAt(db), 512)

	rowids, err := searchIndex(pr, 3, TextEncodingUTF8, Value{Type: ValueTypeText, Str: "Purple"})
	require.NoError(t, err)
	assert.Empty(t, rowids)
}

func TestStrategyEquivalenceIndexVsScan(t *testing.T) {
	db := buildColorIndexDB(512)
	pr := NewPageReader(memReaderAt(db), 512)

	rowids, err := searchIndex(pr, 3, TextEncodingUTF8, Value{Type: ValueTypeText, Str: "Light Green"})
	require.NoError(t, err)
	indexRecs, err := fetchRowsByRowidsParallel(context.Background(), pr, 2, TextEncodingUTF8, rowids, 2)
	require.NoError(t, err)

	scanRecs, err := scanTable(pr, 2, TextEncodingUTF8, func(r *Record) bool {
		return r.Values[2].Str == "Light Green"
	})
	require.NoError(t, err)

	require.Len(t, indexRecs, 1)
	require.Len(t, scanRecs, 1)
	assert.Equal(t, scanRecs[0].Values[1].Str, indexRecs[0].Values[1].Str)
}

func TestCompareValuesNumeric(t *testing.T) {
	a := Value{Type: ValueTypeInteger, Int: 5}
	b := Value{Type: ValueTypeInteger, Int: 10}
	assert.Equal(t, -1, compareValues(a, b))
	assert.Equal(t, 1, compareValues(b, a))
	assert.Equal(t, 0, compareValues(a, a))
}

func TestCompareValuesByteWise(t *testing.T) {
	a := Value{Type: ValueTypeText, Str: "abc"}
	b := Value{Type: ValueTypeText, Str: "abd"}
	assert.Equal(t, -1, compareValues(a, b))
}

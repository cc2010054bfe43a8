package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryCount(t *testing.T) {
	q, err := parseQuery("SELECT COUNT(*) FROM apples")
	require.NoError(t, err)
	assert.Equal(t, QueryCountRows, q.Kind)
	assert.Equal(t, "apples", q.Table)
}

func TestParseQuerySelectColumns(t *testing.T) {
	q, err := parseQuery("SELECT name, color FROM apples")
	require.NoError(t, err)
	assert.Equal(t, QuerySelect, q.Kind)
	assert.Equal(t, []string{"name", "color"}, q.Columns)
	assert.Nil(t, q.Where)
}

func TestParseQuerySelectWithWhere(t *testing.T) {
	q, err := parseQuery("SELECT name FROM apples WHERE color = 'Red'")
	require.NoError(t, err)
	require.NotNil(t, q.Where)
	assert.Equal(t, "color", q.Where.Column)
	assert.Equal(t, "Red", q.Where.Value)
}

func TestParseQueryStar(t *testing.T) {
	q, err := parseQuery("SELECT * FROM apples")
	require.NoError(t, err)
	assert.True(t, q.Star)
}

func TestParseQueryCaseInsensitive(t *testing.T) {
	q1, err := parseQuery("SELECT * FROM Foo")
	require.NoError(t, err)
	q2, err := parseQuery("select * from foo")
	require.NoError(t, err)
	assert.Equal(t, q1.Star, q2.Star)
}

func TestParseQueryUnsupportedJoin(t *testing.T) {
	_, err := parseQuery("SELECT * FROM apples JOIN oranges ON apples.id = oranges.id")
	require.Error(t, err)
	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindUnsupported, ee.Kind)
}

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRow_PadsAndTruncates(t *testing.T) {
	tb := New("a", "b", "c")

	tb.AddRow([]string{"1"})
	tb.AddRow([]string{"1", "2", "3", "4"})

	require.Equal(t, 2, tb.NumRows())
	assert.Equal(t, []string{"1", "", ""}, tb.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, tb.Rows[1])
}

func TestGet(t *testing.T) {
	tb := New("date", "amount")
	tb.AddRow([]string{"2024-01-05", "1000"})

	assert.Equal(t, "1000", tb.Get(0, "amount"))
	assert.Equal(t, "", tb.Get(0, "missing"))
	assert.Equal(t, "", tb.Get(5, "amount"))
}

func TestAddConstColumn(t *testing.T) {
	tb := New("date")
	tb.AddRow([]string{"2024-01-05"})
	tb.AddRow([]string{"2024-01-06"})

	tb.AddConstColumn(ColSourceStoreID, "S01")

	assert.Equal(t, []string{"date", ColSourceStoreID}, tb.Columns)
	assert.Equal(t, "S01", tb.Get(0, ColSourceStoreID))
	assert.Equal(t, "S01", tb.Get(1, ColSourceStoreID))
}

func TestClone_IndependentStorage(t *testing.T) {
	tb := New("date", "amount")
	tb.AddRow([]string{"2024-01-05", "1000"})

	cl := tb.Clone()
	cl.AddConstColumn("extra", "x")
	cl.Rows[0][0] = "mutated"

	assert.Equal(t, []string{"date", "amount"}, tb.Columns)
	assert.Equal(t, []string{"2024-01-05", "1000"}, tb.Rows[0])
	assert.Equal(t, "x", cl.Get(0, "extra"))
}

func TestConcat_SparseUnion(t *testing.T) {
	a := New("date", "amount")
	a.AddRow([]string{"2024-01-05", "1000"})

	b := New("date", "quantity")
	b.AddRow([]string{"2024-01-06", "3"})

	out := Concat(a, b)

	assert.Equal(t, []string{"date", "amount", "quantity"}, out.Columns)
	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, []string{"2024-01-05", "1000", ""}, out.Rows[0])
	assert.Equal(t, []string{"2024-01-06", "", "3"}, out.Rows[1])
}

func TestConcat_FirstAppearanceColumnOrder(t *testing.T) {
	a := New("x", "y")
	b := New("y", "z", "x")

	out := Concat(a, b)
	assert.Equal(t, []string{"x", "y", "z"}, out.Columns)
}

func TestConcat_RepeatedColumnFirstNonEmptyWins(t *testing.T) {
	a := New("date", "date")
	a.AddRow([]string{"", "2024-01-05"})
	a.AddRow([]string{"2024-01-06", "2024-01-07"})

	out := Concat(a)

	assert.Equal(t, []string{"date"}, out.Columns)
	assert.Equal(t, "2024-01-05", out.Rows[0][0])
	assert.Equal(t, "2024-01-06", out.Rows[1][0])
}

func TestConcat_Empty(t *testing.T) {
	out := Concat()
	assert.Equal(t, 0, out.NumRows())
	assert.Equal(t, 0, out.NumCols())
}

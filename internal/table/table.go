// Package table provides the raw string table the loader and normalizer
// operate on before rows are coerced into typed transactions.
package table

// Provenance columns injected during loading and dropped before the final
// projection.
const (
	ColSourceStoreID = "_source_store_id"
	ColSourceFile    = "_source_file"
)

// Table is a rectangular table of raw string cells. An empty string is the
// missing-value sentinel; raw extracts never carry meaningful empty cells
// that must be distinguished from absent ones.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// AddRow appends a row, padding or truncating it to the column count.
func (t *Table) AddRow(cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// ColumnIndex returns the index of the first column with the given name,
// or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Get returns the cell at row i under the first column named name, or ""
// when the column is absent.
func (t *Table) Get(i int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][idx]
}

// Clone returns a deep copy sharing no backing storage with the receiver.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// AddConstColumn appends a column filled with the same value in every row.
// Used to inject provenance fields during loading.
func (t *Table) AddConstColumn(name, value string) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// Concat combines tables into one by sparse union of their columns: the
// output carries every column of every input in first-appearance order, and
// rows from tables lacking a column get the missing-value sentinel there.
// Input row order is preserved but carries no semantic meaning downstream.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	pos := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := pos[c]; ok {
				continue
			}
			pos[c] = len(out.Columns)
			out.Columns = append(out.Columns, c)
		}
	}

	for _, t := range tables {
		idx := make([]int, len(t.Columns))
		for j, c := range t.Columns {
			idx[j] = pos[c]
		}
		for _, row := range t.Rows {
			merged := make([]string, len(out.Columns))
			for j, cell := range row {
				// First non-empty wins when an input repeats a column name.
				if j < len(idx) && merged[idx[j]] == "" {
					merged[idx[j]] = cell
				}
			}
			out.Rows = append(out.Rows, merged)
		}
	}

	return out
}

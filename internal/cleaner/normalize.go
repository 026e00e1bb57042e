package cleaner

import (
	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/table"
)

// coreColumns is the projection applied after normalization; everything else
// is dropped. Provenance columns survive until the final projection.
var coreColumns = []string{
	colDate,
	colStore,
	colCategory,
	colProduct,
	colPrice,
	colQuantity,
	colAmount,
	table.ColSourceStoreID,
	table.ColSourceFile,
}

// NormalizeColumns renames every recognized raw column onto its canonical
// name and coalesces the duplicates the renaming creates: when several raw
// columns map to the same canonical name, each row takes the first non-empty
// value in left-to-right column order. Unrecognized columns keep their raw
// names and are dropped later by SelectCoreColumns.
func NormalizeColumns(t *table.Table, columns map[string]string) *table.Table {
	renamed := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if canonical, ok := columns[c]; ok {
			renamed[i] = canonical
		} else {
			renamed[i] = c
		}
	}

	// Group source indices per output column, preserving first appearance.
	var outCols []string
	groups := make(map[string][]int, len(renamed))
	for i, c := range renamed {
		if _, ok := groups[c]; !ok {
			outCols = append(outCols, c)
		}
		groups[c] = append(groups[c], i)
	}

	if len(outCols) < len(renamed) {
		zap.L().Warn("cleaner: duplicate columns detected, coalescing",
			zap.Int("raw_columns", len(renamed)),
			zap.Int("coalesced_columns", len(outCols)),
		)
	}

	out := table.New(outCols...)
	for _, row := range t.Rows {
		cells := make([]string, len(outCols))
		for j, c := range outCols {
			for _, idx := range groups[c] {
				if idx < len(row) && row[idx] != "" {
					cells[j] = row[idx]
					break
				}
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

// SelectCoreColumns keeps only the canonical and provenance columns, in
// fixed order, skipping any that are absent from the input.
func SelectCoreColumns(t *table.Table) *table.Table {
	var keep []string
	var idx []int
	for _, c := range coreColumns {
		if i := t.ColumnIndex(c); i >= 0 {
			keep = append(keep, c)
			idx = append(idx, i)
		}
	}

	out := table.New(keep...)
	for _, row := range t.Rows {
		cells := make([]string, len(keep))
		for j, i := range idx {
			if i < len(row) {
				cells[j] = row[i]
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

package loader

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/table"
)

const (
	// maxHeaderSkip bounds the header-row probe: store workbooks put notes
	// or titles above the header, but never more than a few rows of them.
	maxHeaderSkip = 5

	// fallbackSkip is used when no sheet/offset candidate looks like data.
	fallbackSkip = 2

	// Plausibility thresholds for a probed candidate table.
	minProbeRows = 6
	minProbeCols = 5
)

// dateHeaders are the recognizable date column spellings across source
// languages. A sheet without one of these is not a sales table.
var dateHeaders = []string{"売上日", "日付", "Date", "取引日"}

// readXLSX parses a spreadsheet workbook with unknown header position and
// unknown sheet. Every sheet is probed at skip offsets 0..maxHeaderSkip and
// the first candidate with a plausible shape, a recognizable date column,
// and a non-placeholder first header wins. When nothing qualifies, the
// first sheet is read at the fixed fallback offset.
func readXLSX(path string) (*table.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("loader: no sheets in %s", path)
	}

	for _, sheet := range f.Sheets {
		for skip := 0; skip <= maxHeaderSkip; skip++ {
			t := sheetToTable(sheet, skip)
			if t == nil {
				continue
			}
			if plausibleSalesTable(t) {
				if skip > 0 {
					zap.L().Info("loader: found header below sheet top",
						zap.String("file", path),
						zap.String("sheet", sheet.Name),
						zap.Int("skip", skip),
					)
				}
				return t, nil
			}
		}
	}

	t := sheetToTable(f.Sheets[0], fallbackSkip)
	if t == nil {
		return nil, eris.Errorf("loader: no usable rows in %s", path)
	}
	zap.L().Warn("loader: probe found no candidate, using fallback offset",
		zap.String("file", path),
		zap.Int("skip", fallbackSkip),
	)
	return t, nil
}

// sheetToTable builds a raw table using the row at index skip as the header
// and everything below it as data. Fully empty rows are dropped. Returns nil
// when the sheet has no header row at that offset.
func sheetToTable(sheet *xlsx.Sheet, skip int) *table.Table {
	if skip >= len(sheet.Rows) {
		return nil
	}

	header := rowToStrings(sheet.Rows[skip])
	if allEmpty(header) {
		return nil
	}
	t := table.New(header...)

	for _, row := range sheet.Rows[skip+1:] {
		cells := rowToStrings(row)
		if allEmpty(cells) {
			continue
		}
		t.AddRow(cells)
	}
	return t
}

// plausibleSalesTable applies the probe acceptance conditions: enough rows
// and columns to be data rather than a notes block, a recognizable date
// header, and a first header that is not a placeholder.
func plausibleSalesTable(t *table.Table) bool {
	if t.NumRows() < minProbeRows || t.NumCols() < minProbeCols {
		return false
	}

	hasDate := false
	for _, name := range dateHeaders {
		if t.ColumnIndex(name) >= 0 {
			hasDate = true
			break
		}
	}
	if !hasDate {
		return false
	}

	return !placeholderHeader(t.Columns[0])
}

// placeholderHeader reports whether a header cell looks auto-generated
// rather than authored.
func placeholderHeader(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.HasPrefix(name, "Unnamed")
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}

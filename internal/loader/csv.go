package loader

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/sniff"
	"github.com/aozora-retail/sales-cli/internal/table"
)

// readCSV parses a delimited-text extract. The encoding is inferred from the
// raw bytes before decoding; the delimiter is comma unless the parse
// collapses to a single semicolon-bearing column, in which case the file is
// re-parsed with semicolons.
func readCSV(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read %s", path)
	}

	text, det, err := sniff.DecodeBytes(data)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: decode %s", path)
	}
	zap.L().Debug("loader: detected encoding",
		zap.String("file", path),
		zap.String("charset", det.Charset),
		zap.Int("confidence", det.Confidence),
	)

	t, err := parseDelimited(text, ',')
	if err != nil {
		return nil, eris.Wrapf(err, "loader: parse %s", path)
	}

	if collapsedToSemicolons(t) {
		zap.L().Info("loader: re-parsing with semicolon delimiter", zap.String("file", path))
		t, err = parseDelimited(text, ';')
		if err != nil {
			return nil, eris.Wrapf(err, "loader: re-parse %s", path)
		}
	}

	return t, nil
}

// parseDelimited reads decoded delimited text into a raw table. The first
// record is the header; fully empty rows are dropped.
func parseDelimited(text string, delim rune) (*table.Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var t *table.Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "loader: read record")
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}

		if t == nil {
			t = table.New(record...)
			continue
		}
		if allEmpty(record) {
			continue
		}
		t.AddRow(record)
	}

	if t == nil {
		return nil, eris.New("loader: empty file")
	}
	return t, nil
}

// collapsedToSemicolons reports whether a comma parse produced a single
// column whose values carry semicolons, the signature of a
// semicolon-delimited file.
func collapsedToSemicolons(t *table.Table) bool {
	if t.NumCols() != 1 || t.NumRows() == 0 {
		return false
	}
	return strings.Contains(t.Rows[0][0], ";")
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

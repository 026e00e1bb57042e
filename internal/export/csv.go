// Package export persists the canonical dataset, the reference tables, and
// the quality report. All delimited output is UTF-8.
package export

import (
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/model"
)

// Output filenames within the output directory.
const (
	TransactionsFile = "sales_clean.csv"
	StoresFile       = "stores.csv"
	CategoriesFile   = "products.csv"
	ReportFile       = "quality_report.yaml"
	SQLiteFile       = "sales.db"
)

// WriteTransactionsCSV writes the canonical transaction table.
func WriteTransactionsCSV(dir string, txns []model.Transaction) error {
	return writeCSV(filepath.Join(dir, TransactionsFile), txns)
}

// WriteStoresCSV writes the store metadata table.
func WriteStoresCSV(dir string, stores []model.Store) error {
	return writeCSV(filepath.Join(dir, StoresFile), stores)
}

// WriteCategoriesCSV writes the product category metadata table.
func WriteCategoriesCSV(dir string, categories []model.Category) error {
	return writeCSV(filepath.Join(dir, CategoriesFile), categories)
}

// ReadTransactionsCSV loads a previously persisted canonical dataset.
func ReadTransactionsCSV(path string) ([]model.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: read %s", path)
	}
	var txns []model.Transaction
	if err := csvutil.Unmarshal(data, &txns); err != nil {
		return nil, eris.Wrapf(err, "export: unmarshal %s", path)
	}
	return txns, nil
}

func writeCSV(path string, v any) error {
	data, err := csvutil.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "export: marshal %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	zap.L().Info("export: wrote file", zap.String("path", path))
	return nil
}

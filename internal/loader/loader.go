// Package loader discovers and parses per-store raw sales extracts of
// unknown encoding and layout into raw tables, tagging every row with the
// store and file it came from.
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/table"
)

// storePrefixMax is the highest valid two-digit store prefix.
const storePrefixMax = 10

// LoadedFile is one successfully parsed source file with its inferred store.
type LoadedFile struct {
	Table    *table.Table
	StoreID  string
	Filename string
}

// StoreIDFromFilename derives a store ID from the two-digit filename prefix.
// "01_渋谷店_売上_202401.xlsx" -> ("S01", true).
func StoreIDFromFilename(name string) (string, bool) {
	if len(name) < 2 {
		return "", false
	}
	n, err := strconv.Atoi(name[:2])
	if err != nil || n < 1 || n > storePrefixMax {
		return "", false
	}
	return "S" + name[:2], true
}

// Discover lists candidate source files in dir: .xlsx or .csv files whose
// name carries a valid two-digit store prefix. Results are sorted by name so
// discovery order is deterministic.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read dir %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".xlsx" && ext != ".csv" {
			continue
		}
		if _, ok := StoreIDFromFilename(name); !ok {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile parses a single source file into a raw table and its store ID.
func LoadFile(path string) (*LoadedFile, error) {
	name := filepath.Base(path)
	storeID, ok := StoreIDFromFilename(name)
	if !ok {
		return nil, eris.Errorf("loader: no store prefix in %s", name)
	}

	var t *table.Table
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		t, err = readXLSX(path)
	case ".csv":
		t, err = readCSV(path)
	default:
		return nil, eris.Errorf("loader: unsupported file type %s", name)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("loader: file loaded",
		zap.String("file", name),
		zap.String("store_id", storeID),
		zap.Int("rows", t.NumRows()),
	)
	return &LoadedFile{Table: t, StoreID: storeID, Filename: name}, nil
}

// LoadAll loads every discovered file, isolating per-file failures: a file
// that fails to parse is logged and skipped, and the batch continues.
func LoadAll(dir string) ([]LoadedFile, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	loaded := make([]LoadedFile, 0, len(paths))
	for _, path := range paths {
		lf, loadErr := LoadFile(path)
		if loadErr != nil {
			zap.L().Warn("loader: skipping file",
				zap.String("file", filepath.Base(path)),
				zap.Error(loadErr),
			)
			continue
		}
		loaded = append(loaded, *lf)
	}

	zap.L().Info("loader: batch loaded",
		zap.Int("loaded", len(loaded)),
		zap.Int("discovered", len(paths)),
	)
	return loaded, nil
}

// Combine concatenates loaded raw tables into one sparse-union table,
// injecting the provenance columns. Original column names are preserved for
// the normalizer. Inputs are not mutated.
func Combine(files []LoadedFile) *table.Table {
	tables := make([]*table.Table, 0, len(files))
	for i := range files {
		t := files[i].Table.Clone()
		t.AddConstColumn(table.ColSourceStoreID, files[i].StoreID)
		t.AddConstColumn(table.ColSourceFile, files[i].Filename)
		tables = append(tables, t)
	}
	combined := table.Concat(tables...)

	zap.L().Info("loader: combined raw tables",
		zap.Int("rows", combined.NumRows()),
		zap.Int("columns", combined.NumCols()),
	)
	return combined
}

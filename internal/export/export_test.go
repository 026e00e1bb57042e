package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aozora-retail/sales-cli/internal/model"
	"github.com/aozora-retail/sales-cli/internal/validator"
)

func sampleTransactions() []model.Transaction {
	qty := 2
	return []model.Transaction{
		{
			TransactionID:   "S01_20240105_0000",
			Date:            model.NewDate(2024, time.January, 5),
			StoreID:         "S01",
			ProductCategory: "Women's Apparel",
			SalesAmount:     7000,
			Quantity:        &qty,
			DayOfWeek:       "Friday",
			DayOfMonth:      5,
			IsWeekend:       false,
			WeekOfMonth:     1,
		},
		{
			TransactionID:   "S02_20240106_0000",
			Date:            model.NewDate(2024, time.January, 6),
			StoreID:         "S02",
			ProductCategory: "Footwear",
			SalesAmount:     5000,
			DayOfWeek:       "Saturday",
			DayOfMonth:      6,
			IsWeekend:       true,
			WeekOfMonth:     1,
		},
	}
}

func TestWriteReadTransactionsCSV_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	txns := sampleTransactions()

	require.NoError(t, WriteTransactionsCSV(dir, txns))

	data, err := os.ReadFile(filepath.Join(dir, TransactionsFile))
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, strings.Join(model.CanonicalColumns, ","), header)
	assert.Contains(t, string(data), "2024-01-05")

	got, err := ReadTransactionsCSV(filepath.Join(dir, TransactionsFile))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, txns[0].TransactionID, got[0].TransactionID)
	assert.True(t, got[0].Date.Equal(txns[0].Date.Time))
	assert.Equal(t, 7000.0, got[0].SalesAmount)
	require.NotNil(t, got[0].Quantity)
	assert.Equal(t, 2, *got[0].Quantity)
	assert.True(t, got[1].IsWeekend)
}

func TestWriteStoresCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteStoresCSV(dir, model.StoreDirectory()))

	data, err := os.ReadFile(filepath.Join(dir, StoresFile))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "store_id,store_name_jp,store_name_en,city,region", lines[0])
	assert.Contains(t, lines[1], "渋谷店")
}

func TestWriteCategoriesCSV(t *testing.T) {
	dir := t.TempDir()
	cats := model.BuildCategoryMetadata([]string{"Footwear", "Bags"})
	require.NoError(t, WriteCategoriesCSV(dir, cats))

	data, err := os.ReadFile(filepath.Join(dir, CategoriesFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "category_id,category_name_en,category_name_jp")
	assert.Contains(t, string(data), "C01,Bags,バッグ")
}

func TestReadTransactionsCSV_MissingFile(t *testing.T) {
	_, err := ReadTransactionsCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestWriteQualityReport(t *testing.T) {
	dir := t.TempDir()
	report := validator.BuildQualityReport(sampleTransactions())
	report.Cleaning = &validator.CleaningSummary{InputRows: 3, RetentionPct: 66.7}

	require.NoError(t, WriteQualityReport(dir, report))

	data, err := os.ReadFile(filepath.Join(dir, ReportFile))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "run_id:")
	assert.Contains(t, text, "total_rows: 2")
	assert.Contains(t, text, "retention_pct: 66.7")
}

func TestMirrorSQLite(t *testing.T) {
	dir := t.TempDir()
	txns := sampleTransactions()
	stores := model.StoreDirectory()
	cats := model.BuildCategoryMetadata([]string{"Women's Apparel", "Footwear"})

	require.NoError(t, MirrorSQLite(context.Background(), dir, txns, stores, cats))

	db, err := sql.Open("sqlite", filepath.Join(dir, SQLiteFile))
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM stores").Scan(&n))
	assert.Equal(t, 10, n)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&n))
	assert.Equal(t, 2, n)

	var qty sql.NullInt64
	require.NoError(t, db.QueryRow(
		"SELECT quantity FROM transactions WHERE transaction_id = ?", "S02_20240106_0000",
	).Scan(&qty))
	assert.False(t, qty.Valid)
}

func TestMirrorSQLite_Rerun(t *testing.T) {
	dir := t.TempDir()
	txns := sampleTransactions()
	stores := model.StoreDirectory()

	require.NoError(t, MirrorSQLite(context.Background(), dir, txns, stores, nil))
	require.NoError(t, MirrorSQLite(context.Background(), dir, txns[:1], stores, nil))

	db, err := sql.Open("sqlite", filepath.Join(dir, SQLiteFile))
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&n))
	assert.Equal(t, 1, n)
}

package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aozora-retail/sales-cli/internal/model"
	"github.com/aozora-retail/sales-cli/internal/table"
)

// rawRow is a shorthand for building combined-table fixtures.
type rawRow struct {
	date, category, price, qty, amount, store string
}

func buildRaw(rows ...rawRow) *table.Table {
	t := table.New("売上日", "カテゴリ", "単価", "数量", "売上金額",
		table.ColSourceStoreID, table.ColSourceFile)
	for _, r := range rows {
		t.AddRow([]string{r.date, r.category, r.price, r.qty, r.amount, r.store, r.store + ".csv"})
	}
	return t
}

func TestClean_HappyPath(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-01-05", category: "レディース", price: "3500", qty: "2", amount: "7000", store: "S01"},
		rawRow{date: "2024/01/06", category: "Footwear", price: "5000", qty: "1", amount: "5000", store: "S01"},
	)

	txns, stats := Clean(raw, DefaultConfig())
	require.Len(t, txns, 2)

	assert.Equal(t, "S01_20240105_0000", txns[0].TransactionID)
	assert.Equal(t, "Women's Apparel", txns[0].ProductCategory)
	assert.Equal(t, 7000.0, txns[0].SalesAmount)
	require.NotNil(t, txns[0].Quantity)
	assert.Equal(t, 2, *txns[0].Quantity)

	assert.Equal(t, "S01_20240106_0000", txns[1].TransactionID)
	assert.Equal(t, "Footwear", txns[1].ProductCategory)

	assert.Equal(t, 2, stats.InputRows)
	assert.Equal(t, 2, stats.OutputRows)
	assert.True(t, stats.Accounted())
	assert.Equal(t, 100.0, stats.Retention())
}

func TestClean_SequencePerStoreAndDate(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-01-05", category: "バッグ", amount: "1000", store: "S01"},
		rawRow{date: "2024-01-05", category: "バッグ", amount: "2000", store: "S01"},
		rawRow{date: "2024-01-05", category: "バッグ", amount: "3000", store: "S02"},
		rawRow{date: "2024-01-06", category: "バッグ", amount: "4000", store: "S01"},
	)

	txns, _ := Clean(raw, DefaultConfig())
	require.Len(t, txns, 4)

	ids := []string{txns[0].TransactionID, txns[1].TransactionID, txns[2].TransactionID, txns[3].TransactionID}
	assert.Equal(t, []string{
		"S01_20240105_0000",
		"S01_20240105_0001",
		"S01_20240106_0000",
		"S02_20240105_0000",
	}, ids)
}

func TestClean_IDsIndependentOfInputOrder(t *testing.T) {
	rows := []rawRow{
		{date: "2024-01-05", category: "バッグ", amount: "1000", store: "S02"},
		{date: "2024-01-04", category: "バッグ", amount: "2000", store: "S01"},
		{date: "2024-01-05", category: "バッグ", amount: "3000", store: "S01"},
	}
	reversed := []rawRow{rows[2], rows[1], rows[0]}

	txns1, _ := Clean(buildRaw(rows...), DefaultConfig())
	txns2, _ := Clean(buildRaw(reversed...), DefaultConfig())

	require.Len(t, txns1, 3)
	require.Len(t, txns2, 3)
	for i := range txns1 {
		assert.Equal(t, txns1[i].TransactionID, txns2[i].TransactionID)
		assert.Equal(t, txns1[i].StoreID, txns2[i].StoreID)
		assert.True(t, txns1[i].Date.Equal(txns2[i].Date.Time))
	}
}

func TestClean_DerivesAmountFromPriceAndQuantity(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-01-10", category: "メンズ", price: "1000", qty: "3", store: "S03"},
	)

	txns, stats := Clean(raw, DefaultConfig())
	require.Len(t, txns, 1)

	assert.Equal(t, 3000.0, txns[0].SalesAmount)
	assert.Equal(t, 0, stats.DroppedBadAmount)
}

func TestClean_DropsBadDates(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "garbage", category: "バッグ", amount: "1000", store: "S01"},
		rawRow{date: "", category: "バッグ", amount: "1000", store: "S01"},
		rawRow{date: "2024-01-05", category: "バッグ", amount: "1000", store: "S01"},
	)

	txns, stats := Clean(raw, DefaultConfig())
	require.Len(t, txns, 1)
	assert.Equal(t, 2, stats.DroppedBadDate)
	assert.True(t, stats.Accounted())
}

func TestClean_DropsOutOfPeriod(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-02-01", category: "バッグ", amount: "1000", store: "S01"},
		rawRow{date: "2023-12-31", category: "バッグ", amount: "1000", store: "S01"},
		rawRow{date: "2024-01-31", category: "バッグ", amount: "1000", store: "S01"},
	)

	txns, stats := Clean(raw, DefaultConfig())
	require.Len(t, txns, 1)
	assert.Equal(t, 2, stats.DroppedOutOfPeriod)
	assert.Equal(t, 31, txns[0].DayOfMonth)
}

func TestClean_DropsBadAmounts(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-01-05", category: "バッグ", amount: "-500", store: "S01"},
		rawRow{date: "2024-01-05", category: "バッグ", store: "S01"},
		rawRow{date: "2024-01-05", category: "バッグ", amount: "abc", store: "S01"},
		rawRow{date: "2024-01-05", category: "バッグ", amount: "0", store: "S01"},
	)

	txns, stats := Clean(raw, DefaultConfig())
	require.Len(t, txns, 1)
	assert.Equal(t, 3, stats.DroppedBadAmount)
	assert.Equal(t, 0.0, txns[0].SalesAmount)
}

func TestClean_UnknownCategoryPassesThrough(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-01-05", category: "家具", amount: "1000", store: "S01"},
	)

	txns, stats := Clean(raw, DefaultConfig())
	require.Len(t, txns, 1)
	assert.Equal(t, "家具", txns[0].ProductCategory)
	assert.Equal(t, 0, stats.DroppedBadCategory)
}

func TestClean_StrictCategoriesDropsUnknown(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-01-05", category: "家具", amount: "1000", store: "S01"},
		rawRow{date: "2024-01-05", category: "キッズ", amount: "2000", store: "S01"},
	)

	cfg := DefaultConfig()
	cfg.StrictCategories = true

	txns, stats := Clean(raw, cfg)
	require.Len(t, txns, 1)
	assert.Equal(t, "Kids", txns[0].ProductCategory)
	assert.Equal(t, 1, stats.DroppedBadCategory)
}

func TestClean_EmptyCategoryAlwaysDropped(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-01-05", category: "", amount: "1000", store: "S01"},
	)

	txns, stats := Clean(raw, DefaultConfig())
	assert.Empty(t, txns)
	assert.Equal(t, 1, stats.DroppedBadCategory)
	assert.True(t, stats.Accounted())
}

func TestClean_TemporalDerivation(t *testing.T) {
	raw := buildRaw(
		// 2024-01-06 is a Saturday, 2024-01-08 a Monday.
		rawRow{date: "2024-01-06", category: "バッグ", amount: "1000", store: "S01"},
		rawRow{date: "2024-01-08", category: "バッグ", amount: "1000", store: "S01"},
		rawRow{date: "2024-01-15", category: "バッグ", amount: "1000", store: "S01"},
	)

	txns, _ := Clean(raw, DefaultConfig())
	require.Len(t, txns, 3)

	assert.Equal(t, "Saturday", txns[0].DayOfWeek)
	assert.True(t, txns[0].IsWeekend)
	assert.Equal(t, 1, txns[0].WeekOfMonth)

	assert.Equal(t, "Monday", txns[1].DayOfWeek)
	assert.False(t, txns[1].IsWeekend)
	assert.Equal(t, 2, txns[1].WeekOfMonth)

	assert.Equal(t, 3, txns[2].WeekOfMonth)
}

func TestClean_QuantityMissingOrNonPositive(t *testing.T) {
	raw := buildRaw(
		rawRow{date: "2024-01-05", category: "バッグ", amount: "1000", store: "S01"},
		rawRow{date: "2024-01-05", category: "バッグ", qty: "0", amount: "1000", store: "S01"},
		rawRow{date: "2024-01-05", category: "バッグ", qty: "2", amount: "1000", store: "S01"},
	)

	txns, _ := Clean(raw, DefaultConfig())
	require.Len(t, txns, 3)

	assert.Nil(t, txns[0].Quantity)
	assert.Nil(t, txns[1].Quantity)
	require.NotNil(t, txns[2].Quantity)
	assert.Equal(t, 2, *txns[2].Quantity)
}

func TestClean_Idempotent(t *testing.T) {
	raw1 := buildRaw(
		rawRow{date: "2024-01-05", category: "レディース", amount: "3500", store: "S01"},
		rawRow{date: "2024-01-09", category: "シューズ", amount: "5000", store: "S02"},
	)
	raw2 := buildRaw(
		rawRow{date: "2024-01-05", category: "レディース", amount: "3500", store: "S01"},
		rawRow{date: "2024-01-09", category: "シューズ", amount: "5000", store: "S02"},
	)

	txns1, stats1 := Clean(raw1, DefaultConfig())
	txns2, stats2 := Clean(raw2, DefaultConfig())

	assert.Equal(t, txns1, txns2)
	assert.Equal(t, stats1, stats2)
}

func TestDeduplicate_KeepsFirst(t *testing.T) {
	first := model.Transaction{TransactionID: "S01_20240105_0000", SalesAmount: 1000}
	dup := model.Transaction{TransactionID: "S01_20240105_0000", SalesAmount: 9999}
	other := model.Transaction{TransactionID: "S01_20240105_0001", SalesAmount: 2000}

	out, removed := Deduplicate([]model.Transaction{first, dup, other})

	require.Len(t, out, 2)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1000.0, out[0].SalesAmount)
	assert.Equal(t, "S01_20240105_0001", out[1].TransactionID)
}

func TestDeduplicate_NoDuplicates(t *testing.T) {
	txns := []model.Transaction{
		{TransactionID: "S01_20240105_0000"},
		{TransactionID: "S01_20240105_0001"},
	}
	out, removed := Deduplicate(txns)
	assert.Len(t, out, 2)
	assert.Equal(t, 0, removed)
}

func TestAssignIdentity_SortsByStoreThenDate(t *testing.T) {
	d5 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	d6 := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	recs := []record{
		{storeID: "S02", date: d5, category: "Bags", amount: 1, order: 0},
		{storeID: "S01", date: d6, category: "Bags", amount: 2, order: 1},
		{storeID: "S01", date: d5, category: "Bags", amount: 3, order: 2},
	}

	txns := assignIdentity(recs)
	require.Len(t, txns, 3)
	assert.Equal(t, "S01_20240105_0000", txns[0].TransactionID)
	assert.Equal(t, "S01_20240106_0000", txns[1].TransactionID)
	assert.Equal(t, "S02_20240105_0000", txns[2].TransactionID)
}

// Package cleaner turns the combined raw table into the validated canonical
// transaction set: schema normalization, per-field cleaning, temporal
// derivation, identity assignment, and deduplication.
package cleaner

import (
	"github.com/aozora-retail/sales-cli/internal/model"
)

// Canonical column names produced by schema normalization.
const (
	colDate     = "date"
	colStore    = "store_name"
	colCategory = "product_category"
	colProduct  = "product_name"
	colPrice    = "unit_price"
	colQuantity = "quantity"
	colAmount   = "sales_amount"
)

// Config carries the immutable lookup tables and policies for one cleaning
// run. Passing them explicitly keeps every stage deterministic and testable
// in isolation.
type Config struct {
	// Period bounds accepted transaction dates.
	Period model.Period

	// Columns maps raw column names onto canonical field names.
	Columns map[string]string

	// Categories maps raw category tokens onto the canonical vocabulary.
	Categories map[string]string

	// StrictCategories drops rows whose category token is absent from the
	// mapping instead of passing the token through unchanged.
	StrictCategories bool
}

// DefaultConfig returns the reference configuration: January 2024 period,
// built-in column and category mappings, pass-through for unmapped category
// tokens.
func DefaultConfig() Config {
	return Config{
		Period:     model.DefaultPeriod(),
		Columns:    DefaultColumnMappings(),
		Categories: model.CategoryMappings(),
	}
}

// DefaultColumnMappings maps the raw column spellings observed across store
// extracts onto canonical field names. Returned as a fresh map per call.
func DefaultColumnMappings() map[string]string {
	return map[string]string{
		// Date columns
		"売上日":      colDate,
		"日付":       colDate,
		"取引日":      colDate,
		"Date":     colDate,
		"横浜店売上管理表": colDate, // Yokohama workbook titles its date column this way

		// Store columns
		"店舗":    colStore,
		"店舗名":   colStore,
		"Store": colStore,

		// Category columns
		"カテゴリ":     colCategory,
		"Category": colCategory,

		// Product columns
		"商品名":     colProduct,
		"商品":      colProduct,
		"Product": colProduct,

		// Price columns
		"単価":    colPrice,
		"価格":    colPrice,
		"Price": colPrice,

		// Quantity columns
		"数量":  colQuantity,
		"個数":  colQuantity,
		"Qty": colQuantity,

		// Sales amount columns
		"売上金額":  colAmount,
		"合計":    colAmount,
		"Sales": colAmount,
	}
}

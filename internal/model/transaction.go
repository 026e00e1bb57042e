// Package model holds the canonical transaction type, the closed store and
// category vocabularies, and the reporting period the pipeline enforces.
package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// dateLayout is the wire format for dates in the canonical dataset.
const dateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format(dateLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(dateLayout, string(text))
	if err != nil {
		return eris.Wrapf(err, "model: parse date %q", string(text))
	}
	d.Time = t
	return nil
}

// Transaction is one row of the canonical dataset. Field order matches the
// persisted column order.
type Transaction struct {
	TransactionID   string  `csv:"transaction_id"`
	Date            Date    `csv:"date"`
	StoreID         string  `csv:"store_id"`
	ProductCategory string  `csv:"product_category"`
	SalesAmount     float64 `csv:"sales_amount"`
	Quantity        *int    `csv:"quantity"`
	DayOfWeek       string  `csv:"day_of_week"`
	DayOfMonth      int     `csv:"day_of_month"`
	IsWeekend       bool    `csv:"is_weekend"`
	WeekOfMonth     int     `csv:"week_of_month"`
}

// CanonicalColumns is the persisted column order of the canonical dataset.
var CanonicalColumns = []string{
	"transaction_id",
	"date",
	"store_id",
	"product_category",
	"sales_amount",
	"quantity",
	"day_of_week",
	"day_of_month",
	"is_weekend",
	"week_of_month",
}

// CriticalFields are the columns that must never be missing in the
// canonical dataset.
var CriticalFields = []string{
	"transaction_id",
	"date",
	"store_id",
	"product_category",
	"sales_amount",
}

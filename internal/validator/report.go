package validator

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aozora-retail/sales-cli/internal/model"
)

// QualityReport is the structured diagnostic summary of a cleaned dataset.
// It is written for human review and never blocks the pipeline.
type QualityReport struct {
	RunID        string                 `yaml:"run_id"`
	GeneratedAt  time.Time              `yaml:"generated_at"`
	TotalRows    int                    `yaml:"total_rows"`
	TotalColumns int                    `yaml:"total_columns"`
	DateRange    DateRangeSummary       `yaml:"date_range"`
	Stores       GroupSummary           `yaml:"stores"`
	Categories   GroupSummary           `yaml:"categories"`
	Sales        SalesSummary           `yaml:"sales"`
	Completeness map[string]Missingness `yaml:"completeness"`
	Cleaning     *CleaningSummary       `yaml:"cleaning,omitempty"`
}

// DateRangeSummary is the observed date span of the dataset.
type DateRangeSummary struct {
	Min  string `yaml:"min"`
	Max  string `yaml:"max"`
	Days int    `yaml:"days"`
}

// GroupSummary summarizes a categorical column: distinct values and per-value
// row counts.
type GroupSummary struct {
	Count  int            `yaml:"count"`
	Values []string       `yaml:"values"`
	Rows   map[string]int `yaml:"rows"`
}

// SalesSummary is the sales_amount distribution.
type SalesSummary struct {
	Total  float64 `yaml:"total"`
	Mean   float64 `yaml:"mean"`
	Median float64 `yaml:"median"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	StdDev float64 `yaml:"std_dev"`
}

// Missingness is per-column missing-value accounting.
type Missingness struct {
	Missing    int     `yaml:"missing"`
	MissingPct float64 `yaml:"missing_pct"`
}

// CleaningSummary carries the row-loss accounting of the cleaning run that
// produced the dataset. Populated by the orchestrator, not computed here.
type CleaningSummary struct {
	InputRows          int     `yaml:"input_rows"`
	DroppedBadDate     int     `yaml:"dropped_bad_date"`
	DroppedOutOfPeriod int     `yaml:"dropped_out_of_period"`
	DroppedBadAmount   int     `yaml:"dropped_bad_amount"`
	DroppedBadCategory int     `yaml:"dropped_bad_category"`
	DroppedDuplicateID int     `yaml:"dropped_duplicate_id"`
	RetentionPct       float64 `yaml:"retention_pct"`
}

// BuildQualityReport computes the descriptive statistics of a cleaned
// dataset. The report is purely diagnostic.
func BuildQualityReport(txns []model.Transaction) *QualityReport {
	report := &QualityReport{
		RunID:        uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		TotalRows:    len(txns),
		TotalColumns: len(model.CanonicalColumns),
		Completeness: completeness(txns),
	}

	if len(txns) == 0 {
		return report
	}

	minDate, maxDate := txns[0].Date.Time, txns[0].Date.Time
	storeRows := make(map[string]int)
	categoryRows := make(map[string]int)
	amounts := make([]float64, 0, len(txns))

	for _, t := range txns {
		if t.Date.Before(minDate) {
			minDate = t.Date.Time
		}
		if t.Date.After(maxDate) {
			maxDate = t.Date.Time
		}
		storeRows[t.StoreID]++
		categoryRows[t.ProductCategory]++
		amounts = append(amounts, t.SalesAmount)
	}

	report.DateRange = DateRangeSummary{
		Min:  minDate.Format("2006-01-02"),
		Max:  maxDate.Format("2006-01-02"),
		Days: int(maxDate.Sub(minDate).Hours()/24) + 1,
	}
	report.Stores = groupSummary(storeRows)
	report.Categories = groupSummary(categoryRows)
	report.Sales = salesSummary(amounts)
	return report
}

func groupSummary(rows map[string]int) GroupSummary {
	values := make([]string, 0, len(rows))
	for v := range rows {
		values = append(values, v)
	}
	sort.Strings(values)
	return GroupSummary{Count: len(values), Values: values, Rows: rows}
}

func salesSummary(amounts []float64) SalesSummary {
	sorted := make([]float64, len(amounts))
	copy(sorted, amounts)
	sort.Float64s(sorted)

	var total float64
	for _, a := range sorted {
		total += a
	}
	n := len(sorted)
	mean := total / float64(n)

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	var variance float64
	if n > 1 {
		for _, a := range sorted {
			variance += (a - mean) * (a - mean)
		}
		variance /= float64(n - 1)
	}

	return SalesSummary{
		Total:  total,
		Mean:   mean,
		Median: median,
		Min:    sorted[0],
		Max:    sorted[n-1],
		StdDev: math.Sqrt(variance),
	}
}

// completeness counts missing values per canonical column. After cleaning,
// only quantity can legitimately be missing; the rest are computed anyway so
// the report stands on its own. The derived day_of_month and week_of_month
// are 1-based, so a zero value means the derivation never ran. sales_amount
// and is_weekend have no missing representation in their types and always
// report zero.
func completeness(txns []model.Transaction) map[string]Missingness {
	missing := make(map[string]int, len(model.CanonicalColumns))
	for _, col := range model.CanonicalColumns {
		missing[col] = 0
	}
	for _, t := range txns {
		if t.TransactionID == "" {
			missing["transaction_id"]++
		}
		if t.Date.IsZero() {
			missing["date"]++
		}
		if t.StoreID == "" {
			missing["store_id"]++
		}
		if t.ProductCategory == "" {
			missing["product_category"]++
		}
		if t.Quantity == nil {
			missing["quantity"]++
		}
		if t.DayOfWeek == "" {
			missing["day_of_week"]++
		}
		if t.DayOfMonth == 0 {
			missing["day_of_month"]++
		}
		if t.WeekOfMonth == 0 {
			missing["week_of_month"]++
		}
	}

	out := make(map[string]Missingness, len(missing))
	for col, n := range missing {
		pct := 0.0
		if len(txns) > 0 {
			pct = float64(n) / float64(len(txns)) * 100
		}
		out[col] = Missingness{Missing: n, MissingPct: pct}
	}
	return out
}

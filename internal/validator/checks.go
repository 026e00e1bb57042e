// Package validator runs the invariant check battery over the canonical
// dataset and produces the data-quality report. It never mutates data.
package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/model"
)

// Check is the outcome of a single invariant check.
type Check struct {
	Name    string
	Passed  bool
	Message string
}

// Result collects the outcome of the full battery. Passed is false when any
// single check failed; all checks run regardless so the caller always sees
// the complete diagnostic picture.
type Result struct {
	Checks []Check
	Passed bool
}

// FailureMessages returns the messages of all failing checks.
func (r Result) FailureMessages() []string {
	var msgs []string
	for _, c := range r.Checks {
		if !c.Passed {
			msgs = append(msgs, fmt.Sprintf("%s: %s", c.Name, c.Message))
		}
	}
	return msgs
}

// CheckCriticalFields verifies that no transaction is missing a critical
// field value.
func CheckCriticalFields(txns []model.Transaction) Check {
	missing := make(map[string]int)
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
	}
	if len(missing) > 0 {
		var parts []string
		for _, f := range model.CriticalFields {
			if n := missing[f]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s has %d missing values", f, n))
			}
		}
		return Check{Name: "no_missing_critical_fields", Message: strings.Join(parts, "; ")}
	}
	return Check{Name: "no_missing_critical_fields", Passed: true, Message: "all critical fields are complete"}
}

// CheckDateRange verifies that every date falls within the reporting period.
func CheckDateRange(txns []model.Transaction, period model.Period) Check {
	outside := 0
	for _, t := range txns {
		if !period.Contains(t.Date.Time) {
			outside++
		}
	}
	if outside > 0 {
		return Check{Name: "date_range", Message: fmt.Sprintf("%d dates outside period %s", outside, period)}
	}
	return Check{Name: "date_range", Passed: true, Message: fmt.Sprintf("all dates within %s", period)}
}

// CheckNonNegativeSales verifies that no sales amount is negative.
func CheckNonNegativeSales(txns []model.Transaction) Check {
	negative := 0
	for _, t := range txns {
		if t.SalesAmount < 0 {
			negative++
		}
	}
	if negative > 0 {
		return Check{Name: "non_negative_sales", Message: fmt.Sprintf("found %d negative sales amounts", negative)}
	}
	return Check{Name: "non_negative_sales", Passed: true, Message: "all sales amounts are non-negative"}
}

// CheckStoreIDs verifies that every store ID belongs to the closed valid set.
func CheckStoreIDs(txns []model.Transaction, valid map[string]struct{}) Check {
	invalid := make(map[string]struct{})
	for _, t := range txns {
		if _, ok := valid[t.StoreID]; !ok {
			invalid[t.StoreID] = struct{}{}
		}
	}
	if len(invalid) > 0 {
		return Check{Name: "valid_store_ids", Message: fmt.Sprintf("found invalid store IDs: %s", joinSet(invalid))}
	}
	return Check{Name: "valid_store_ids", Passed: true, Message: "all store IDs valid"}
}

// CheckCategories verifies that every product category belongs to the closed
// canonical vocabulary.
func CheckCategories(txns []model.Transaction, vocabulary []string) Check {
	valid := make(map[string]struct{}, len(vocabulary))
	for _, c := range vocabulary {
		valid[c] = struct{}{}
	}
	unknown := make(map[string]struct{})
	for _, t := range txns {
		if _, ok := valid[t.ProductCategory]; !ok {
			unknown[t.ProductCategory] = struct{}{}
		}
	}
	if len(unknown) > 0 {
		return Check{Name: "canonical_categories", Message: fmt.Sprintf("found non-canonical categories: %s", joinSet(unknown))}
	}
	return Check{Name: "canonical_categories", Passed: true, Message: "all categories canonical"}
}

var txnIDPattern = regexp.MustCompile(`^S\d{2}_\d{8}_\d{4}$`)

// CheckDerivedFields verifies the shape and internal consistency of the
// derived columns: weekday name matches the date, weekend flag matches the
// weekday, day and week of month follow from the date, and transaction IDs
// have the canonical format.
func CheckDerivedFields(txns []model.Transaction) Check {
	bad := 0
	for _, t := range txns {
		weekday := t.Date.Weekday()
		weekend := weekday == time.Saturday || weekday == time.Sunday
		switch {
		case t.DayOfWeek != weekday.String(),
			t.IsWeekend != weekend,
			t.DayOfMonth != t.Date.Day(),
			t.WeekOfMonth != (t.Date.Day()-1)/7+1,
			!txnIDPattern.MatchString(t.TransactionID):
			bad++
		}
	}
	if bad > 0 {
		return Check{Name: "derived_fields", Message: fmt.Sprintf("%d rows with inconsistent derived fields", bad)}
	}
	return Check{Name: "derived_fields", Passed: true, Message: "all derived fields consistent"}
}

// CheckUniqueTransactionIDs verifies that no transaction ID repeats.
func CheckUniqueTransactionIDs(txns []model.Transaction) Check {
	seen := make(map[string]struct{}, len(txns))
	dupes := 0
	for _, t := range txns {
		if _, ok := seen[t.TransactionID]; ok {
			dupes++
			continue
		}
		seen[t.TransactionID] = struct{}{}
	}
	if dupes > 0 {
		return Check{Name: "unique_transaction_ids", Message: fmt.Sprintf("found %d duplicate transaction IDs", dupes)}
	}
	return Check{Name: "unique_transaction_ids", Passed: true, Message: fmt.Sprintf("all %d transaction IDs are unique", len(txns))}
}

// CheckReferentialIntegrity verifies that every referenced store exists in
// the store metadata table.
func CheckReferentialIntegrity(txns []model.Transaction, stores []model.Store) Check {
	known := model.ValidStoreIDs(stores)
	orphaned := make(map[string]struct{})
	for _, t := range txns {
		if _, ok := known[t.StoreID]; !ok {
			orphaned[t.StoreID] = struct{}{}
		}
	}
	if len(orphaned) > 0 {
		return Check{Name: "referential_integrity", Message: fmt.Sprintf("store IDs without metadata: %s", joinSet(orphaned))}
	}
	return Check{Name: "referential_integrity", Passed: true, Message: "all store IDs have metadata"}
}

// ValidateAll runs the full battery. Every check runs even after a failure
// so the result enumerates all violated invariants. The referential
// integrity check is skipped when no store metadata is supplied.
func ValidateAll(txns []model.Transaction, period model.Period, stores []model.Store) Result {
	valid := model.ValidStoreIDs(model.StoreDirectory())
	if stores != nil {
		valid = model.ValidStoreIDs(stores)
	}

	checks := []Check{
		CheckCriticalFields(txns),
		CheckDateRange(txns, period),
		CheckNonNegativeSales(txns),
		CheckStoreIDs(txns, valid),
		CheckDerivedFields(txns),
		CheckUniqueTransactionIDs(txns),
	}
	if stores != nil {
		checks = append(checks, CheckReferentialIntegrity(txns, stores))
	}

	result := Result{Checks: checks, Passed: true}
	for _, c := range checks {
		if c.Passed {
			zap.L().Info("validator: check passed", zap.String("check", c.Name), zap.String("detail", c.Message))
		} else {
			zap.L().Error("validator: check failed", zap.String("check", c.Name), zap.String("detail", c.Message))
			result.Passed = false
		}
	}
	return result
}

func joinSet(set map[string]struct{}) string {
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return strings.Join(vals, ", ")
}

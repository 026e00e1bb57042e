package cleaner

import (
	"fmt"
	"sort"
	"time"

	"github.com/aozora-retail/sales-cli/internal/model"
)

// assignIdentity derives the temporal fields, assigns deterministic
// transaction IDs, and projects records onto the canonical columns.
//
// Records are stable-sorted by (store_id, date, insertion index) before
// sequence numbers are assigned, so IDs do not depend on incidental
// concatenation order and identical input always yields identical output.
func assignIdentity(recs []record) []model.Transaction {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].storeID != recs[j].storeID {
			return recs[i].storeID < recs[j].storeID
		}
		if !recs[i].date.Equal(recs[j].date) {
			return recs[i].date.Before(recs[j].date)
		}
		return recs[i].order < recs[j].order
	})

	type group struct {
		store string
		date  time.Time
	}
	seq := make(map[group]int)

	txns := make([]model.Transaction, 0, len(recs))
	for _, r := range recs {
		g := group{store: r.storeID, date: r.date}
		id := fmt.Sprintf("%s_%s_%04d", r.storeID, r.date.Format("20060102"), seq[g])
		seq[g]++
		txns = append(txns, toTransaction(r, id))
	}
	return txns
}

// Deduplicate drops transactions with a transaction ID already seen earlier
// in the slice, keeping the first occurrence.
func Deduplicate(txns []model.Transaction) ([]model.Transaction, int) {
	seen := make(map[string]struct{}, len(txns))
	out := txns[:0]
	removed := 0
	for _, t := range txns {
		if _, dup := seen[t.TransactionID]; dup {
			removed++
			continue
		}
		seen[t.TransactionID] = struct{}{}
		out = append(out, t)
	}
	return out, removed
}

// toTransaction projects a cleaned record onto the canonical columns,
// computing the pure-function-of-date fields.
func toTransaction(r record, id string) model.Transaction {
	weekday := r.date.Weekday()
	day := r.date.Day()

	var qty *int
	if r.hasQty && r.quantity > 0 {
		q := r.quantity
		qty = &q
	}

	return model.Transaction{
		TransactionID:   id,
		Date:            model.Date{Time: r.date},
		StoreID:         r.storeID,
		ProductCategory: r.category,
		SalesAmount:     r.amount,
		Quantity:        qty,
		DayOfWeek:       weekday.String(),
		DayOfMonth:      day,
		IsWeekend:       weekday == time.Saturday || weekday == time.Sunday,
		WeekOfMonth:     (day-1)/7 + 1,
	}
}

package cleaner

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/model"
	"github.com/aozora-retail/sales-cli/internal/table"
)

// record is one row in flight through the cleaning stages: raw cells plus
// the typed values the stages fill in. order is the insertion index in the
// combined table, the tiebreak that makes sequencing reproducible.
type record struct {
	rawDate     string
	rawCategory string
	rawPrice    string
	rawQuantity string
	rawAmount   string

	date      time.Time
	category  string
	amount    float64
	derived   bool // amount computed from unit_price × quantity
	quantity  int
	hasQty    bool
	unitPrice float64
	hasPrice  bool

	storeID    string
	sourceFile string
	order      int
}

// Stats accounts for every row that entered cleaning: the per-stage drop
// counts plus the surviving output always sum back to the input.
type Stats struct {
	InputRows          int
	DroppedBadDate     int
	DroppedOutOfPeriod int
	DroppedBadAmount   int
	DroppedBadCategory int
	DroppedDuplicateID int
	OutputRows         int
}

// Retention is the fraction of input rows that survived, as a percentage.
func (s Stats) Retention() float64 {
	if s.InputRows == 0 {
		return 0
	}
	return float64(s.OutputRows) / float64(s.InputRows) * 100
}

// Dropped is the total number of rows removed across all stages.
func (s Stats) Dropped() int {
	return s.DroppedBadDate + s.DroppedOutOfPeriod + s.DroppedBadAmount +
		s.DroppedBadCategory + s.DroppedDuplicateID
}

// Accounted reports whether every input row is explained by either a drop
// or an output row. Cleaning never invents rows.
func (s Stats) Accounted() bool {
	return s.InputRows == s.OutputRows+s.Dropped()
}

// Clean runs the full cleaning pipeline over the combined raw table:
// schema normalization, core-column projection, date cleaning, amount
// cleaning, category standardization, store-ID assignment, temporal
// derivation, identity assignment, and deduplication.
func Clean(raw *table.Table, cfg Config) ([]model.Transaction, Stats) {
	log := zap.L()
	log.Info("cleaner: starting", zap.Int("input_rows", raw.NumRows()))

	normalized := NormalizeColumns(raw, cfg.Columns)
	core := SelectCoreColumns(normalized)

	recs := toRecords(core)
	stats := Stats{InputRows: len(recs)}

	recs, stats.DroppedBadDate, stats.DroppedOutOfPeriod = cleanDates(recs, cfg.Period)
	if stats.DroppedBadDate > 0 {
		log.Warn("cleaner: dropped rows with unparseable dates", zap.Int("count", stats.DroppedBadDate))
	}
	if stats.DroppedOutOfPeriod > 0 {
		log.Warn("cleaner: dropped rows outside reporting period",
			zap.Int("count", stats.DroppedOutOfPeriod),
			zap.String("period", cfg.Period.String()),
		)
	}

	recs, stats.DroppedBadAmount = cleanAmounts(recs)
	if stats.DroppedBadAmount > 0 {
		log.Warn("cleaner: dropped rows with missing or negative amounts", zap.Int("count", stats.DroppedBadAmount))
	}

	recs, stats.DroppedBadCategory = standardizeCategories(recs, cfg.Categories, cfg.StrictCategories)
	if stats.DroppedBadCategory > 0 {
		log.Warn("cleaner: dropped rows with missing categories", zap.Int("count", stats.DroppedBadCategory))
	}

	txns, dupes := Deduplicate(assignIdentity(recs))
	stats.DroppedDuplicateID = dupes
	if dupes > 0 {
		log.Warn("cleaner: removed duplicate transaction IDs", zap.Int("count", dupes))
	}

	stats.OutputRows = len(txns)
	log.Info("cleaner: complete",
		zap.Int("output_rows", stats.OutputRows),
		zap.Float64("retention_pct", stats.Retention()),
	)
	return txns, stats
}

// toRecords captures the projected table as typed-in-progress records. The
// provenance store ID becomes the canonical store_id here: the file-derived
// attribution is authoritative.
func toRecords(t *table.Table) []record {
	recs := make([]record, 0, t.NumRows())
	for i := range t.Rows {
		recs = append(recs, record{
			rawDate:     t.Get(i, colDate),
			rawCategory: t.Get(i, colCategory),
			rawPrice:    t.Get(i, colPrice),
			rawQuantity: t.Get(i, colQuantity),
			rawAmount:   t.Get(i, colAmount),
			storeID:     t.Get(i, table.ColSourceStoreID),
			sourceFile:  t.Get(i, table.ColSourceFile),
			order:       i,
		})
	}
	return recs
}

// cleanDates coerces raw dates and drops rows that fail to parse or fall
// outside the reporting period.
func cleanDates(recs []record, period model.Period) (kept []record, badDate, outOfPeriod int) {
	kept = recs[:0]
	for _, r := range recs {
		d, ok := parseDate(r.rawDate)
		if !ok {
			badDate++
			continue
		}
		if !period.Contains(d) {
			outOfPeriod++
			continue
		}
		r.date = d
		kept = append(kept, r)
	}
	return kept, badDate, outOfPeriod
}

// cleanAmounts coerces sales amounts, deriving missing ones from
// unit_price × quantity, and drops rows whose amount is still missing or
// negative.
func cleanAmounts(recs []record) (kept []record, dropped int) {
	kept = recs[:0]
	for _, r := range recs {
		var hasAmount bool
		r.amount, hasAmount = parseNumber(r.rawAmount)
		r.unitPrice, r.hasPrice = parseNumber(r.rawPrice)
		r.quantity, r.hasQty = parseQuantity(r.rawQuantity)

		if !hasAmount && r.hasPrice && r.hasQty {
			r.amount = r.unitPrice * float64(r.quantity)
			r.derived = true
			hasAmount = true
		}

		if !hasAmount || r.amount < 0 {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

// standardizeCategories maps raw category tokens through the canonical
// vocabulary. Unmapped tokens pass through unchanged unless strict mode is
// on; rows with no category at all are always dropped.
func standardizeCategories(recs []record, categories map[string]string, strict bool) (kept []record, dropped int) {
	kept = recs[:0]
	for _, r := range recs {
		token := strings.TrimSpace(r.rawCategory)
		if token == "" {
			dropped++
			continue
		}
		if canonical, ok := categories[token]; ok {
			r.category = canonical
		} else if strict {
			dropped++
			continue
		} else {
			r.category = token
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

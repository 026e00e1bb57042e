package export

import (
	"context"
	"database/sql"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/aozora-retail/sales-cli/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	transaction_id   TEXT PRIMARY KEY,
	date             TEXT NOT NULL,
	store_id         TEXT NOT NULL REFERENCES stores(store_id),
	product_category TEXT NOT NULL,
	sales_amount     REAL NOT NULL CHECK (sales_amount >= 0),
	quantity         INTEGER,
	day_of_week      TEXT NOT NULL,
	day_of_month     INTEGER NOT NULL,
	is_weekend       INTEGER NOT NULL,
	week_of_month    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS stores (
	store_id      TEXT PRIMARY KEY,
	store_name_jp TEXT NOT NULL,
	store_name_en TEXT NOT NULL,
	city          TEXT NOT NULL,
	region        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	category_id      TEXT PRIMARY KEY,
	category_name_en TEXT NOT NULL,
	category_name_jp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_store_id ON transactions(store_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`

// MirrorSQLite writes the three output tables into a SQLite database
// alongside the CSVs, for ad-hoc querying by the reporting layer. The CSVs
// remain the canonical output.
func MirrorSQLite(ctx context.Context, dir string, txns []model.Transaction, stores []model.Store, categories []model.Category) error {
	path := filepath.Join(dir, SQLiteFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "export: open sqlite")
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return eris.Wrap(err, "export: sqlite pragma")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "export: sqlite schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "export: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"transactions", "stores", "categories"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return eris.Wrapf(err, "export: clear %s", table)
		}
	}

	for _, s := range stores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stores (store_id, store_name_jp, store_name_en, city, region) VALUES (?, ?, ?, ?, ?)`,
			s.StoreID, s.NameJP, s.NameEN, s.City, s.Region,
		); err != nil {
			return eris.Wrapf(err, "export: insert store %s", s.StoreID)
		}
	}

	for _, c := range categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (category_id, category_name_en, category_name_jp) VALUES (?, ?, ?)`,
			c.CategoryID, c.NameEN, c.NameJP,
		); err != nil {
			return eris.Wrapf(err, "export: insert category %s", c.CategoryID)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions
		(transaction_id, date, store_id, product_category, sales_amount, quantity, day_of_week, day_of_month, is_weekend, week_of_month)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "export: prepare insert")
	}
	defer stmt.Close()

	for _, t := range txns {
		var qty any
		if t.Quantity != nil {
			qty = *t.Quantity
		}
		if _, err := stmt.ExecContext(ctx,
			t.TransactionID, t.Date.Format("2006-01-02"), t.StoreID, t.ProductCategory,
			t.SalesAmount, qty, t.DayOfWeek, t.DayOfMonth, t.IsWeekend, t.WeekOfMonth,
		); err != nil {
			return eris.Wrapf(err, "export: insert transaction %s", t.TransactionID)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "export: commit")
	}

	zap.L().Info("export: wrote sqlite mirror",
		zap.String("path", path),
		zap.Int("transactions", len(txns)),
	)
	return nil
}

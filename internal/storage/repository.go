package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ledgerview/internal/core"
	"ledgerview/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists sales line items and raw voucher rows. Voucher
// numeric columns stay TEXT because the grouping engine parses the raw
// strings itself.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListLineItems returns line items whose date falls within [from, to]
// inclusive. Dates are stored ISO so string comparison is date comparison.
func (r *SQLiteRepository) ListLineItems(ctx context.Context, from, to string) ([]core.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, invoice_number, customer, item_name, stock_group,
		       pin_code, quantity, rate, amount, profit, master_id
		FROM line_items
		WHERE date >= ? AND date <= ?
		ORDER BY date, rowid`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	var items []core.LineItem
	for rows.Next() {
		var (
			li      core.LineItem
			rawDate string
		)
		if err := rows.Scan(&li.ID, &rawDate, &li.InvoiceNumber, &li.Customer,
			&li.ItemName, &li.StockGroup, &li.PinCode,
			&li.Quantity, &li.Rate, &li.Amount, &li.Profit, &li.MasterID); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		d, ok := core.ParseDate(rawDate)
		if !ok {
			slog.WarnContext(ctx, "Skipping line item with unparseable date",
				"id", li.ID, "date", rawDate)
			continue
		}
		li.Date = d
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}

	return items, nil
}

// ReplaceLineItems deletes all line items in [from, to] and inserts the given
// set in one transaction, so a sync cycle never leaves a partial range.
func (r *SQLiteRepository) ReplaceLineItems(ctx context.Context, from, to string, items []core.LineItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace line items: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM line_items WHERE date >= ? AND date <= ?`, from, to); err != nil {
		return fmt.Errorf("delete line items range: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO line_items (id, date, invoice_number, customer, item_name,
			stock_group, pin_code, quantity, rate, amount, profit, master_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert line item: %w", err)
	}
	defer stmt.Close()

	for _, li := range items {
		if _, err := stmt.ExecContext(ctx, li.ID, li.Date.ISO(), li.InvoiceNumber,
			li.Customer, li.ItemName, li.StockGroup, li.PinCode,
			li.Quantity, li.Rate, li.Amount, li.Profit, li.MasterID); err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace line items: %w", err)
	}

	slog.InfoContext(ctx, "Line items replaced",
		log.FieldFromDate, from, log.FieldToDate, to, log.FieldRowCount, len(items))
	return nil
}

// VoucherPageParams selects one page of raw voucher rows.
type VoucherPageParams struct {
	From       string
	To         string
	FilterKeys []string
	GUID       string
	LocationID string
	Limit      int
	Offset     int
}

// GetVoucherPage returns one window of voucher rows plus the total row count
// for the same filters. Rows are ordered by (date_key, mstid, rowid) so one
// voucher's rows stay contiguous and the total is stable across pages.
func (r *SQLiteRepository) GetVoucherPage(ctx context.Context, p VoucherPageParams) ([]core.VoucherRow, int, error) {
	where, args := voucherWhere(p)

	var total int
	countSQL := `SELECT COUNT(*) FROM voucher_rows ` + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count voucher rows: %w", err)
	}

	pageSQL := `
		SELECT mstid, date, vchtype, vchno, party, ledger_id, ledger, isprty,
		       ledger_amt, item, qty, amt, voucher_amt
		FROM voucher_rows ` + where + `
		ORDER BY date_key, mstid, rowid
		LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := r.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query voucher rows: %w", err)
	}
	defer rows.Close()

	var out []core.VoucherRow
	for rows.Next() {
		var v core.VoucherRow
		if err := rows.Scan(&v.MstID, &v.Date, &v.VchType, &v.VchNo, &v.Party,
			&v.LedgerID, &v.Ledger, &v.IsParty, &v.LedgerAmt,
			&v.Item, &v.Qty, &v.Amt, &v.VoucherAmt); err != nil {
			return nil, 0, fmt.Errorf("scan voucher row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate voucher rows: %w", err)
	}

	return out, total, nil
}

func voucherWhere(p VoucherPageParams) (string, []any) {
	clauses := []string{"date_key >= ?", "date_key <= ?"}
	args := []any{p.From, p.To}

	if p.GUID != "" {
		clauses = append(clauses, "guid = ?")
		args = append(args, p.GUID)
	}
	if p.LocationID != "" {
		clauses = append(clauses, "location_id = ?")
		args = append(args, p.LocationID)
	}
	if len(p.FilterKeys) > 0 {
		placeholders := make([]string, len(p.FilterKeys))
		for i, k := range p.FilterKeys {
			placeholders[i] = "?"
			args = append(args, k)
		}
		clauses = append(clauses, "vchtype IN ("+strings.Join(placeholders, ", ")+")")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// ReplaceVoucherRows deletes all voucher rows for the account in [from, to]
// and inserts the fresh set in one transaction.
func (r *SQLiteRepository) ReplaceVoucherRows(ctx context.Context, guid, locationID, from, to string, rows []core.VoucherRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace voucher rows: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM voucher_rows WHERE guid = ? AND date_key >= ? AND date_key <= ?`,
		guid, from, to); err != nil {
		return fmt.Errorf("delete voucher range: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO voucher_rows (mstid, date, date_key, vchtype, vchno, party,
			ledger_id, ledger, isprty, ledger_amt, item, qty, amt, voucher_amt,
			guid, location_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert voucher row: %w", err)
	}
	defer stmt.Close()

	for _, v := range rows {
		// date_key normalizes the mixed raw date shapes so range filters and
		// page ordering see a single lexicographic order. Unparseable dates
		// keep the raw string, matching the engine's lexicographic fallback.
		dateKey := v.Date
		if d, ok := core.ParseDate(v.Date); ok {
			dateKey = d.ISO()
		}
		if _, err := stmt.ExecContext(ctx, v.MstID, v.Date, dateKey, v.VchType,
			v.VchNo, v.Party, v.LedgerID, v.Ledger, v.IsParty, v.LedgerAmt,
			v.Item, v.Qty, v.Amt, v.VoucherAmt, guid, locationID); err != nil {
			return fmt.Errorf("insert voucher row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace voucher rows: %w", err)
	}

	slog.InfoContext(ctx, "Voucher rows replaced",
		log.FieldGUID, guid, log.FieldFromDate, from, log.FieldToDate, to, log.FieldRowCount, len(rows))
	return nil
}

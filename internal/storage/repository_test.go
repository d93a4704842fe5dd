package storage

import (
	"context"
	"path/filepath"
	"testing"

	"ledgerview/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func li(id, date, customer string, amount float64) core.LineItem {
	d, ok := core.ParseDate(date)
	if !ok {
		panic("bad test date: " + date)
	}
	return core.LineItem{ID: id, Date: d, Customer: customer, Amount: amount}
}

func TestReplaceAndListLineItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	items := []core.LineItem{
		li("1", "2024-01-05", "Acme", 100),
		li("2", "2024-01-20", "Beta", 200),
		li("3", "2024-02-02", "Acme", 300),
	}
	if err := repo.ReplaceLineItems(ctx, "2024-01-01", "2024-02-28", items); err != nil {
		t.Fatalf("ReplaceLineItems: %v", err)
	}

	got, err := repo.ListLineItems(ctx, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("ListLineItems: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items in January, got %d", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("expected date order 1,2 got %s,%s", got[0].ID, got[1].ID)
	}
	if got[0].Date.ISO() != "2024-01-05" {
		t.Errorf("round-trip date = %q", got[0].Date.ISO())
	}
}

func TestReplaceLineItemsOverwritesRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []core.LineItem{li("1", "2024-01-05", "Acme", 100)}
	if err := repo.ReplaceLineItems(ctx, "2024-01-01", "2024-01-31", first); err != nil {
		t.Fatalf("ReplaceLineItems: %v", err)
	}
	second := []core.LineItem{li("2", "2024-01-10", "Beta", 50)}
	if err := repo.ReplaceLineItems(ctx, "2024-01-01", "2024-01-31", second); err != nil {
		t.Fatalf("ReplaceLineItems: %v", err)
	}

	got, err := repo.ListLineItems(ctx, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("ListLineItems: %v", err)
	}
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only the replacement row, got %+v", got)
	}
}

func TestGetVoucherPageOrderingAndTotal(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rows := []core.VoucherRow{
		{MstID: "B", Date: "10-Jan-24", VchType: "Sales", LedgerID: "L1", LedgerAmt: "100"},
		{MstID: "A", Date: "2024-01-05", VchType: "Sales", LedgerID: "L1", LedgerAmt: "50"},
		{MstID: "A", Date: "2024-01-05", VchType: "Sales", LedgerID: "L2", Item: "Widget", Qty: "2", Amt: "50"},
		{MstID: "C", Date: "2024-01-20", VchType: "Receipt", LedgerID: "L1", LedgerAmt: "30"},
	}
	if err := repo.ReplaceVoucherRows(ctx, "g1", "loc1", "2024-01-01", "2024-01-31", rows); err != nil {
		t.Fatalf("ReplaceVoucherRows: %v", err)
	}

	page, total, err := repo.GetVoucherPage(ctx, VoucherPageParams{
		From: "2024-01-01", To: "2024-01-31", GUID: "g1",
		Limit: 3, Offset: 0,
	})
	if err != nil {
		t.Fatalf("GetVoucherPage: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(page) != 3 {
		t.Fatalf("page size = %d, want 3", len(page))
	}
	// Rows of voucher A stay contiguous and ahead of B despite B's compact
	// date string sorting before A's ISO one lexicographically.
	if page[0].MstID != "A" || page[1].MstID != "A" || page[2].MstID != "B" {
		t.Errorf("page order = %s,%s,%s", page[0].MstID, page[1].MstID, page[2].MstID)
	}
	if page[0].Date != "2024-01-05" {
		t.Errorf("raw date preserved = %q", page[0].Date)
	}
}

func TestGetVoucherPageFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rows := []core.VoucherRow{
		{MstID: "A", Date: "2024-01-05", VchType: "Sales"},
		{MstID: "B", Date: "2024-01-06", VchType: "Receipt"},
		{MstID: "C", Date: "2024-01-07", VchType: "Payment"},
	}
	if err := repo.ReplaceVoucherRows(ctx, "g1", "", "2024-01-01", "2024-01-31", rows); err != nil {
		t.Fatalf("ReplaceVoucherRows: %v", err)
	}

	page, total, err := repo.GetVoucherPage(ctx, VoucherPageParams{
		From: "2024-01-01", To: "2024-01-31",
		FilterKeys: []string{"Sales", "Payment"},
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("GetVoucherPage: %v", err)
	}
	if total != 2 || len(page) != 2 {
		t.Fatalf("filtered total=%d len=%d, want 2/2", total, len(page))
	}
	if page[0].MstID != "A" || page[1].MstID != "C" {
		t.Errorf("filtered order = %s,%s", page[0].MstID, page[1].MstID)
	}

	_, total, err = repo.GetVoucherPage(ctx, VoucherPageParams{
		From: "2024-01-01", To: "2024-01-31", GUID: "other", Limit: 10,
	})
	if err != nil {
		t.Fatalf("GetVoucherPage: %v", err)
	}
	if total != 0 {
		t.Errorf("foreign guid total = %d, want 0", total)
	}
}

func TestReplaceVoucherRowsScopedToGUID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := []core.VoucherRow{{MstID: "A", Date: "2024-01-05", VchType: "Sales"}}
	b := []core.VoucherRow{{MstID: "B", Date: "2024-01-05", VchType: "Sales"}}
	if err := repo.ReplaceVoucherRows(ctx, "g1", "", "2024-01-01", "2024-01-31", a); err != nil {
		t.Fatalf("ReplaceVoucherRows g1: %v", err)
	}
	if err := repo.ReplaceVoucherRows(ctx, "g2", "", "2024-01-01", "2024-01-31", b); err != nil {
		t.Fatalf("ReplaceVoucherRows g2: %v", err)
	}

	_, total, err := repo.GetVoucherPage(ctx, VoucherPageParams{
		From: "2024-01-01", To: "2024-01-31", GUID: "g1", Limit: 10,
	})
	if err != nil {
		t.Fatalf("GetVoucherPage: %v", err)
	}
	if total != 1 {
		t.Errorf("g1 rows after g2 replace = %d, want 1", total)
	}
}

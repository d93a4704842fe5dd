package adapters

import (
	"context"

	"ledgerview/internal/core"
	"ledgerview/internal/source"
	"ledgerview/internal/storage"
)

// SQLiteAdapter adapts SQLiteRepository to the source ports so the report
// service works unchanged against the local store.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
}

func NewSQLiteAdapter(repo *storage.SQLiteRepository) *SQLiteAdapter {
	return &SQLiteAdapter{storage: repo}
}

// FetchLineItems implements source.LineItemSource.
func (a *SQLiteAdapter) FetchLineItems(ctx context.Context, from, to string) ([]core.LineItem, error) {
	return a.storage.ListLineItems(ctx, from, to)
}

// GetPage implements source.VoucherPager.
func (a *SQLiteAdapter) GetPage(ctx context.Context, q source.PageQuery) (source.Page, error) {
	rows, total, err := a.storage.GetVoucherPage(ctx, storage.VoucherPageParams{
		From:       q.From,
		To:         q.To,
		FilterKeys: q.FilterKeys,
		GUID:       q.GUID,
		LocationID: q.LocationID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return source.Page{}, err
	}
	return source.Page{Rows: rows, Total: total}, nil
}

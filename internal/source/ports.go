package source

import (
	"context"

	"ledgerview/internal/core"
)

// Ports for outbound data providers. Implementations are the SQLite store
// and the in-memory seed store.
type (
	// LineItemSource returns sales line items in an inclusive ISO date range.
	LineItemSource interface {
		FetchLineItems(ctx context.Context, from, to string) ([]core.LineItem, error)
	}

	// VoucherPager returns one fixed-size window of raw voucher rows.
	VoucherPager interface {
		GetPage(ctx context.Context, q PageQuery) (Page, error)
	}
)

// PageQuery selects a window of voucher rows for one account.
type PageQuery struct {
	From       string
	To         string
	FilterKeys []string
	GUID       string
	LocationID string
	Limit      int
	Offset     int
}

// Page is one window of voucher rows. Total counts all rows matching the
// query's filters, not just this window.
type Page struct {
	Rows  []core.VoucherRow
	Total int
}

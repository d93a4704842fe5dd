package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledgerview/internal/amqp"
	"ledgerview/internal/core"
	"ledgerview/internal/log"
	"ledgerview/internal/source"
)

// Store is the slice of the local repository the worker writes to.
type Store interface {
	ReplaceLineItems(ctx context.Context, from, to string, items []core.LineItem) error
	ReplaceVoucherRows(ctx context.Context, guid, locationID, from, to string, rows []core.VoucherRow) error
}

// SyncWorker pulls data from the remote accounting source into the local
// store so report queries never block on the remote.
type SyncWorker struct {
	store    Store
	items    source.LineItemSource
	vouchers source.VoucherPager
	pageSize int
}

func NewSyncWorker(store Store, items source.LineItemSource, vouchers source.VoucherPager, pageSize int) *SyncWorker {
	return &SyncWorker{
		store:    store,
		items:    items,
		vouchers: vouchers,
		pageSize: pageSize,
	}
}

// HandleRefresh processes a single refresh request from AMQP. It re-pulls
// both data sets for the requested range and swaps them into the store.
func (w *SyncWorker) HandleRefresh(ctx context.Context, msg *amqp.RefreshMessage) error {
	slog.InfoContext(ctx, "Processing refresh request",
		log.FieldGUID, msg.GUID,
		log.FieldFromDate, msg.From,
		log.FieldToDate, msg.To)

	if err := w.syncLineItems(ctx, msg.From, msg.To); err != nil {
		return fmt.Errorf("sync line items: %w", err)
	}
	if err := w.syncVouchers(ctx, msg.GUID, msg.LocationID, msg.From, msg.To); err != nil {
		return fmt.Errorf("sync vouchers: %w", err)
	}
	return nil
}

func (w *SyncWorker) syncLineItems(ctx context.Context, from, to string) error {
	items, err := w.items.FetchLineItems(ctx, from, to)
	if err != nil {
		return fmt.Errorf("fetch line items: %w", err)
	}
	if err := w.store.ReplaceLineItems(ctx, from, to, items); err != nil {
		return fmt.Errorf("store line items: %w", err)
	}
	return nil
}

func (w *SyncWorker) syncVouchers(ctx context.Context, guid, locationID, from, to string) error {
	var all []core.VoucherRow
	offset := 0
	for {
		page, err := w.vouchers.GetPage(ctx, source.PageQuery{
			From:       from,
			To:         to,
			GUID:       guid,
			LocationID: locationID,
			Limit:      w.pageSize,
			Offset:     offset,
		})
		if err != nil {
			return fmt.Errorf("fetch voucher page at offset %d: %w", offset, err)
		}
		all = append(all, page.Rows...)
		offset += len(page.Rows)
		if len(page.Rows) == 0 || offset >= page.Total {
			break
		}
	}

	if err := w.store.ReplaceVoucherRows(ctx, guid, locationID, from, to, all); err != nil {
		return fmt.Errorf("store voucher rows: %w", err)
	}
	return nil
}

// RunPeriodic refreshes a trailing window on a fixed interval. It is a
// fallback for lost AMQP messages and runs until the context is cancelled.
func (w *SyncWorker) RunPeriodic(ctx context.Context, guid, locationID string, interval time.Duration, windowDays int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Periodic sync started",
		"interval", interval, "window_days", windowDays)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Periodic sync stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			to := time.Now().UTC()
			from := to.AddDate(0, 0, -windowDays)
			msg := amqp.NewRefreshMessage(guid, locationID,
				from.Format("2006-01-02"), to.Format("2006-01-02"))
			if err := w.HandleRefresh(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err)
			}
		}
	}
}

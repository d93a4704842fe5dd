package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"ledgerview/internal/core"
	"ledgerview/internal/source/memory"
)

// Seed file row shapes. Dates stay strings here; line item dates must parse
// as one of the two canonical formats, voucher dates pass through raw.
type (
	seedLineItem struct {
		ID            string  `json:"id"`
		Date          string  `json:"date"`
		InvoiceNumber string  `json:"invoiceNumber"`
		Customer      string  `json:"customer"`
		ItemName      string  `json:"itemName"`
		StockGroup    string  `json:"stockGroup"`
		PinCode       string  `json:"pinCode"`
		Quantity      float64 `json:"quantity"`
		Rate          float64 `json:"rate"`
		Amount        float64 `json:"amount"`
		Profit        float64 `json:"profit"`
		MasterID      string  `json:"masterId"`
	}

	seedVoucherFile struct {
		GUID       string            `json:"guid"`
		LocationID string            `json:"locationId"`
		Rows       []core.VoucherRow `json:"rows"`
	}
)

// loadSeedSource builds the in-process stand-in for the remote accounting
// source from optional JSON seed files. Until a remote client exists this is
// what the worker pulls from.
func loadSeedSource() (*memory.Store, error) {
	src := memory.New()

	if path := os.Getenv("LINE_ITEMS_SEED"); path != "" {
		items, err := loadLineItems(path)
		if err != nil {
			return nil, fmt.Errorf("load line items seed: %w", err)
		}
		src.SeedLineItems(items)
		slog.Info("Seeded line items", "path", path, "count", len(items))
	}

	if path := os.Getenv("VOUCHERS_SEED"); path != "" {
		file, err := loadVouchers(path)
		if err != nil {
			return nil, fmt.Errorf("load vouchers seed: %w", err)
		}
		src.SeedVoucherRows(file.GUID, file.LocationID, file.Rows)
		slog.Info("Seeded voucher rows", "path", path, "count", len(file.Rows))
	}

	return src, nil
}

func loadLineItems(path string) ([]core.LineItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []seedLineItem
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	items := make([]core.LineItem, 0, len(rows))
	for _, r := range rows {
		d, ok := core.ParseDate(r.Date)
		if !ok {
			slog.Warn("Skipping seed row with unparseable date", "id", r.ID, "date", r.Date)
			continue
		}
		items = append(items, core.LineItem{
			ID:            r.ID,
			Date:          d,
			InvoiceNumber: r.InvoiceNumber,
			Customer:      r.Customer,
			ItemName:      r.ItemName,
			StockGroup:    r.StockGroup,
			PinCode:       r.PinCode,
			Quantity:      r.Quantity,
			Rate:          r.Rate,
			Amount:        r.Amount,
			Profit:        r.Profit,
			MasterID:      r.MasterID,
		})
	}
	return items, nil
}

func loadVouchers(path string) (*seedVoucherFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file seedVoucherFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// Package memory is an in-process data source used by tests and the memory
// backend. It applies the same date-range and filter semantics as the SQLite
// store over seeded slices.
package memory

import (
	"context"
	"sort"
	"sync"

	"ledgerview/internal/core"
	"ledgerview/internal/source"
)

type Store struct {
	mu       sync.Mutex
	items    []core.LineItem
	vouchers []accountRows
}

type accountRows struct {
	guid       string
	locationID string
	rows       []core.VoucherRow
}

func New() *Store {
	return &Store{}
}

// SeedLineItems replaces the line item set.
func (s *Store) SeedLineItems(items []core.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.LineItem(nil), items...)
}

// SeedVoucherRows replaces the voucher rows of one account.
func (s *Store) SeedVoucherRows(guid, locationID string, rows []core.VoucherRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.vouchers {
		if a.guid == guid && a.locationID == locationID {
			s.vouchers[i].rows = append([]core.VoucherRow(nil), rows...)
			return
		}
	}
	s.vouchers = append(s.vouchers, accountRows{
		guid:       guid,
		locationID: locationID,
		rows:       append([]core.VoucherRow(nil), rows...),
	})
}

// FetchLineItems implements source.LineItemSource.
func (s *Store) FetchLineItems(_ context.Context, from, to string) ([]core.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.LineItem
	for _, li := range s.items {
		iso := li.Date.ISO()
		if iso >= from && iso <= to {
			out = append(out, li)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.ISO() < out[j].Date.ISO()
	})
	return out, nil
}

// GetPage implements source.VoucherPager.
func (s *Store) GetPage(_ context.Context, q source.PageQuery) (source.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []core.VoucherRow
	for _, a := range s.vouchers {
		if q.GUID != "" && a.guid != q.GUID {
			continue
		}
		if q.LocationID != "" && a.locationID != q.LocationID {
			continue
		}
		for _, v := range a.rows {
			if !inRange(v.Date, q.From, q.To) {
				continue
			}
			if len(q.FilterKeys) > 0 && !containsKey(q.FilterKeys, v.VchType) {
				continue
			}
			matched = append(matched, v)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		di, dj := dateKey(matched[i].Date), dateKey(matched[j].Date)
		if di != dj {
			return di < dj
		}
		return matched[i].MstID < matched[j].MstID
	})

	page := source.Page{Total: len(matched)}
	if q.Offset < len(matched) {
		end := q.Offset + q.Limit
		if q.Limit <= 0 || end > len(matched) {
			end = len(matched)
		}
		page.Rows = append([]core.VoucherRow(nil), matched[q.Offset:end]...)
	}
	return page, nil
}

func dateKey(raw string) string {
	if d, ok := core.ParseDate(raw); ok {
		return d.ISO()
	}
	return raw
}

func inRange(raw, from, to string) bool {
	k := dateKey(raw)
	return k >= from && k <= to
}

func containsKey(keys []string, v string) bool {
	for _, k := range keys {
		if k == v {
			return true
		}
	}
	return false
}

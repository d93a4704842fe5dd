// Package reports orchestrates the report pipeline: fetch rows from a
// source, run the aggregation engine, cache the encoded result. It owns the
// request-generation guard that discards results computed for a superseded
// filter application.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"ledgerview/internal/cache"
	"ledgerview/internal/core"
	"ledgerview/internal/source"
)

// ErrStaleGeneration marks a result computed for a filter application that
// was superseded while the computation ran. Callers drop the result and never
// render it.
var ErrStaleGeneration = errors.New("report generation superseded")

type Service struct {
	items    source.LineItemSource
	vouchers source.VoucherPager
	cache    cache.Store
	pageSize int
	topN     int

	mu         sync.Mutex
	generation string
}

// NewService wires the report pipeline. cacheStore may be nil to disable
// caching; pageSize and topN fall back to sane defaults when non-positive.
func NewService(items source.LineItemSource, vouchers source.VoucherPager, cacheStore cache.Store, pageSize, topN int) *Service {
	if pageSize <= 0 {
		pageSize = 50
	}
	if topN <= 0 {
		topN = 5
	}
	return &Service{
		items:      items,
		vouchers:   vouchers,
		cache:      cacheStore,
		pageSize:   pageSize,
		topN:       topN,
		generation: uuid.NewString(),
	}
}

// BeginGeneration starts a new request generation. Every date-range or filter
// application calls this; in-flight computations for the old generation fail
// with ErrStaleGeneration instead of overwriting fresh results.
func (s *Service) BeginGeneration() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation = uuid.NewString()
	return s.generation
}

// Generation returns the current generation id.
func (s *Service) Generation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Service) checkGeneration(gen string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return ErrStaleGeneration
	}
	return nil
}

// PageSize returns the voucher page window size.
func (s *Service) PageSize() int {
	return s.pageSize
}

type (
	// DashboardRequest asks for the summary view over an inclusive ISO date
	// range.
	DashboardRequest struct {
		From    string
		To      string
		Filters core.FilterConfig
	}

	Summary struct {
		TotalSales    float64 `json:"totalSales"`
		TotalProfit   float64 `json:"totalProfit"`
		ProfitPercent float64 `json:"profitPercent"`
		TotalQuantity float64 `json:"totalQuantity"`
		AvgPerDay     float64 `json:"avgPerDay"`
	}

	DashboardReport struct {
		Generation string                                 `json:"generation"`
		Summary    Summary                                `json:"summary"`
		Trend      []core.TrendPoint                      `json:"trend"`
		Charts     map[core.Dimension][]core.AggregateRow `json:"charts"`
	}

	// DrilldownRequest asks for the full ranked entity list of one dimension.
	DrilldownRequest struct {
		Dimension core.Dimension
		From      string
		To        string
		Filters   core.FilterConfig
	}

	DrilldownReport struct {
		Generation string              `json:"generation"`
		Dimension  core.Dimension      `json:"dimension"`
		Rows       []core.AggregateRow `json:"rows"`
	}

	// EntityInvoicesRequest asks for the invoices behind one entity of one
	// dimension.
	EntityInvoicesRequest struct {
		Dimension core.Dimension
		Entity    string
		From      string
		To        string
		Filters   core.FilterConfig
	}

	InvoiceGroup struct {
		InvoiceNumber string          `json:"invoiceNumber"`
		Date          string          `json:"date"`
		Amount        float64         `json:"amount"`
		Profit        float64         `json:"profit"`
		Quantity      float64         `json:"quantity"`
		Lines         []core.LineItem `json:"lines"`
	}

	EntityInvoicesReport struct {
		Generation string         `json:"generation"`
		Entity     string         `json:"entity"`
		Invoices   []InvoiceGroup `json:"invoices"`
	}

	// VoucherPageRequest asks for one grouped page of the day book.
	VoucherPageRequest struct {
		From       string
		To         string
		FilterKeys []string
		GUID       string
		LocationID string
		PageIndex  int
	}

	VoucherPageReport struct {
		Cards     []core.VoucherCard `json:"cards"`
		Total     int                `json:"total"`
		PageIndex int                `json:"pageIndex"`
		PageSize  int                `json:"pageSize"`
		HasMore   bool               `json:"hasMore"`
	}
)

// Dashboard computes the summary view: grand totals, the period trend, and
// one ranked top-N chart per enabled dimension, all scaled per the filter
// config.
func (s *Service) Dashboard(ctx context.Context, req DashboardRequest) (*DashboardReport, error) {
	gen := s.Generation()

	key := cache.Key(append([]string{"dashboard", req.From, req.To,
		strconv.Itoa(s.topN)}, filterFingerprint(req.Filters)...)...)
	if cached, ok := s.cacheGet(ctx, key); ok {
		var report DashboardReport
		if err := json.Unmarshal(cached, &report); err == nil {
			report.Generation = gen
			return &report, nil
		}
	}

	records, err := s.fetchFiltered(ctx, req.From, req.To, req.Filters)
	if err != nil {
		return nil, err
	}

	cfg := req.Filters
	charts := make(map[core.Dimension][]core.AggregateRow)
	for _, dim := range core.Dimensions() {
		if cfg.EnabledGroups != nil && !cfg.EnabledGroups[dim] {
			continue
		}
		agg := core.Aggregate(records, core.DimensionAccessor(dim), cfg.MetricType, cfg.Periodicity)
		charts[dim] = core.Scale(core.Rank(agg, cfg, dim, s.topN), cfg.ScaleFactor)
	}

	totals := core.Aggregate(records, core.ConstantAccessor("total"), cfg.MetricType, cfg.Periodicity)
	report := &DashboardReport{
		Generation: gen,
		Charts:     charts,
	}
	if row, ok := totals["total"]; ok {
		scaled := core.Scale([]core.AggregateRow{row}, cfg.ScaleFactor)[0]
		sales := scaled.Sales(cfg.MetricType)
		profit := scaled.Profit(cfg.MetricType)
		report.Summary = Summary{
			TotalSales:    sales,
			TotalProfit:   profit,
			ProfitPercent: core.ProfitPercent(sales, profit),
			TotalQuantity: scaled.Quantity,
			AvgPerDay:     avgPerDay(sales, cfg.AvgWindowDays),
		}
		report.Trend = scaled.Trend
	}

	if err := s.checkGeneration(gen); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, report)
	return report, nil
}

// Drilldown computes the full ranked entity list of one dimension, honoring
// every active filter. No top-N truncation: the drilldown list is complete.
func (s *Service) Drilldown(ctx context.Context, req DrilldownRequest) (*DrilldownReport, error) {
	if !req.Dimension.IsValid() {
		return nil, core.ErrInvalidDimension
	}
	gen := s.Generation()

	key := cache.Key(append([]string{"drilldown", string(req.Dimension),
		req.From, req.To}, filterFingerprint(req.Filters)...)...)
	if cached, ok := s.cacheGet(ctx, key); ok {
		var report DrilldownReport
		if err := json.Unmarshal(cached, &report); err == nil {
			report.Generation = gen
			return &report, nil
		}
	}

	records, err := s.fetchFiltered(ctx, req.From, req.To, req.Filters)
	if err != nil {
		return nil, err
	}

	cfg := req.Filters
	agg := core.Aggregate(records, core.DimensionAccessor(req.Dimension), cfg.MetricType, cfg.Periodicity)
	rows := core.Scale(core.Rank(agg, cfg, req.Dimension, 0), cfg.ScaleFactor)

	report := &DrilldownReport{
		Generation: gen,
		Dimension:  req.Dimension,
		Rows:       rows,
	}

	if err := s.checkGeneration(gen); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, report)
	return report, nil
}

// EntityInvoices lists the invoices behind one entity, grouped by invoice
// number with per-invoice totals, ordered by date then invoice number.
func (s *Service) EntityInvoices(ctx context.Context, req EntityInvoicesRequest) (*EntityInvoicesReport, error) {
	if !req.Dimension.IsValid() {
		return nil, core.ErrInvalidDimension
	}
	gen := s.Generation()

	filters := req.Filters.WithSelection(req.Dimension, req.Entity)
	records, err := s.fetchFiltered(ctx, req.From, req.To, filters)
	if err != nil {
		return nil, err
	}

	index := make(map[string]*InvoiceGroup)
	order := make([]string, 0)
	for _, li := range records {
		g := index[li.InvoiceNumber]
		if g == nil {
			g = &InvoiceGroup{
				InvoiceNumber: li.InvoiceNumber,
				Date:          li.Date.ISO(),
			}
			index[li.InvoiceNumber] = g
			order = append(order, li.InvoiceNumber)
		}
		g.Amount += li.Amount
		g.Profit += li.Profit
		g.Quantity += li.Quantity
		g.Lines = append(g.Lines, li)
	}

	invoices := make([]InvoiceGroup, 0, len(order))
	for _, num := range order {
		invoices = append(invoices, *index[num])
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		if invoices[i].Date != invoices[j].Date {
			return invoices[i].Date < invoices[j].Date
		}
		return invoices[i].InvoiceNumber < invoices[j].InvoiceNumber
	})

	if err := s.checkGeneration(gen); err != nil {
		return nil, err
	}
	return &EntityInvoicesReport{
		Generation: gen,
		Entity:     req.Entity,
		Invoices:   invoices,
	}, nil
}

// VoucherPage fetches one store page and groups it into voucher cards. The
// grouping is page-scoped; the store's (date, voucher id) ordering keeps one
// voucher's rows on the same page in all but pathological cases.
func (s *Service) VoucherPage(ctx context.Context, req VoucherPageRequest) (*VoucherPageReport, error) {
	if req.PageIndex < 0 {
		req.PageIndex = 0
	}

	page, err := s.vouchers.GetPage(ctx, source.PageQuery{
		From:       req.From,
		To:         req.To,
		FilterKeys: req.FilterKeys,
		GUID:       req.GUID,
		LocationID: req.LocationID,
		Limit:      s.pageSize,
		Offset:     req.PageIndex * s.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch voucher page: %w", err)
	}

	return &VoucherPageReport{
		Cards:     core.GroupVouchers(page.Rows),
		Total:     page.Total,
		PageIndex: req.PageIndex,
		PageSize:  s.pageSize,
		HasMore:   (req.PageIndex+1)*s.pageSize < page.Total,
	}, nil
}

// fetchFiltered pulls the range and applies every active categorical
// selection before aggregation, so a selection on one dimension constrains
// all charts.
func (s *Service) fetchFiltered(ctx context.Context, from, to string, cfg core.FilterConfig) ([]core.LineItem, error) {
	records, err := s.items.FetchLineItems(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch line items: %w", err)
	}
	if !cfg.HasSelection() {
		return records, nil
	}

	out := make([]core.LineItem, 0, len(records))
	for _, li := range records {
		if matchesSelections(li, cfg) {
			out = append(out, li)
		}
	}
	return out, nil
}

func matchesSelections(li core.LineItem, cfg core.FilterConfig) bool {
	for _, dim := range core.Dimensions() {
		sel := cfg.Selection(dim)
		if sel == core.FilterAll {
			continue
		}
		if core.DimensionAccessor(dim)(li) != sel {
			return false
		}
	}
	return true
}

func avgPerDay(total float64, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	return total / float64(windowDays)
}

func filterFingerprint(cfg core.FilterConfig) []string {
	parts := []string{
		cfg.SelectedStockGroup,
		cfg.SelectedPinCode,
		cfg.SelectedCustomer,
		cfg.SelectedItem,
		string(cfg.Periodicity),
		string(cfg.MetricType),
		string(cfg.SortBy),
		strconv.FormatFloat(cfg.ScaleFactor, 'g', -1, 64),
		strconv.Itoa(cfg.AvgWindowDays),
	}
	for _, dim := range core.Dimensions() {
		enabled := cfg.EnabledGroups == nil || cfg.EnabledGroups[dim]
		parts = append(parts, string(dim)+"="+strconv.FormatBool(enabled))
	}
	return parts
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

func (s *Service) cacheSet(ctx context.Context, key string, report any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, data)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledgerview/internal/amqp"
	"ledgerview/internal/core"
	"ledgerview/internal/reports"
	"ledgerview/internal/source/memory"
)

func newTestServer(t *testing.T, publisher RefreshPublisher) *Server {
	t.Helper()

	src := memory.New()
	d1, _ := core.ParseDate("2024-01-05")
	d2, _ := core.ParseDate("2024-01-20")
	src.SeedLineItems([]core.LineItem{
		{ID: "1", Date: d1, InvoiceNumber: "INV-1", Customer: "Acme", ItemName: "Widget", Quantity: 2, Amount: 100, Profit: 20},
		{ID: "2", Date: d2, InvoiceNumber: "INV-2", Customer: "Beta", ItemName: "Gadget", Quantity: 1, Amount: 300, Profit: 60},
	})
	src.SeedVoucherRows("g1", "", []core.VoucherRow{
		{MstID: "V1", Date: "2024-01-05", VchType: "Sales", LedgerID: "L1", Ledger: "Acme", IsParty: "Yes", LedgerAmt: "100", VoucherAmt: "100"},
	})

	svc := reports.NewService(src, src, nil, 50, 5)
	s := NewServer(Options{
		Addr:      ":0",
		Reports:   svc,
		Publisher: publisher,
	})
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard?from=2024-01-01&to=2024-01-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report reports.DashboardReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.Summary.TotalSales != 400 {
		t.Errorf("TotalSales = %v, want 400", report.Summary.TotalSales)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("request id header missing")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestDashboardRejectsPost(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/dashboard")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestDrilldownEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/drilldown/customers?from=2024-01-01&to=2024-01-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("customers status = %d", rec.Code)
	}
	var report reports.DrilldownReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.Dimension != core.DimCustomer || len(report.Rows) != 2 {
		t.Errorf("unexpected customers report %+v", report)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/drilldown/items?from=2024-01-01&to=2024-01-31&customer=Acme")
	if rec.Code != http.StatusOK {
		t.Fatalf("items status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].DimensionValue != "Widget" {
		t.Errorf("filtered items report %+v", report.Rows)
	}
}

func TestEntityInvoicesEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/drilldown/invoices?from=2024-01-01&to=2024-01-31&entity=Acme")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report reports.EntityInvoicesReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(report.Invoices) != 1 || report.Invoices[0].InvoiceNumber != "INV-1" {
		t.Errorf("unexpected invoices %+v", report.Invoices)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/drilldown/invoices?from=2024-01-01&to=2024-01-31")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing entity status = %d, want 400", rec.Code)
	}
}

func TestVouchersEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/vouchers?from=2024-01-01&to=2024-01-31&guid=g1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report reports.VoucherPageReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.Total != 1 || len(report.Cards) != 1 || report.Cards[0].MstID != "V1" {
		t.Errorf("unexpected voucher page %+v", report)
	}
}

type fakePublisher struct {
	published []*amqp.RefreshMessage
	fail      bool
}

func (f *fakePublisher) PublishRefresh(_ context.Context, msg *amqp.RefreshMessage) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.published = append(f.published, msg)
	return nil
}

func TestRefreshEndpoint(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestServer(t, pub)

	rec := doRequest(t, s, http.MethodPost, "/api/refresh?guid=g1&from=2024-01-01&to=2024-01-31")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(pub.published) != 1 || pub.published[0].GUID != "g1" {
		t.Errorf("published = %+v", pub.published)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["generation"] == "" {
		t.Error("refresh must return the new generation")
	}
}

func TestRefreshWithoutPublisher(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/refresh")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

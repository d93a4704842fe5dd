package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"ledgerview/internal/amqp"
	"ledgerview/internal/auth"
	"ledgerview/internal/middleware/metrics"
	"ledgerview/internal/middleware/ratelimit"
	"ledgerview/internal/middleware/security"
	"ledgerview/internal/middleware/trace"
	"ledgerview/internal/reports"
)

// RefreshPublisher pushes refresh requests onto the sync queue. Nil disables
// the refresh endpoint.
type RefreshPublisher interface {
	PublishRefresh(ctx context.Context, msg *amqp.RefreshMessage) error
}

// Options configures the API server.
type Options struct {
	Addr           string
	Reports        *reports.Service
	Publisher      RefreshPublisher
	Auth           *auth.Validator
	RequestTimeout time.Duration
	RateLimit      ratelimit.Config
}

type Server struct {
	http.Server
	reports        *reports.Service
	publisher      RefreshPublisher
	limiter        *ratelimit.Limiter
	requestTimeout time.Duration
	shutdownOnce   sync.Once
}

// NewServer configures routes and the middleware chain, returning a
// ready-to-run server.
func NewServer(opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.Auth == nil {
		opts.Auth = auth.NewValidator("")
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		reports:        opts.Reports,
		publisher:      opts.Publisher,
		limiter:        ratelimit.NewLimiter(opts.RateLimit),
		requestTimeout: opts.RequestTimeout,
	}

	tracer := trace.NewMiddleware(extractClientIP)
	limit := s.limiter.Middleware(extractClientIP)
	secure := security.Middleware(security.DefaultConfig())
	chain := func(h http.Handler) http.Handler {
		return secure(tracer.Middleware(metrics.Middleware(limit(opts.Auth.Middleware(h)))))
	}

	mux.Handle("/api/dashboard", chain(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("/api/drilldown/customers", chain(http.HandlerFunc(s.handleDrilldownCustomers)))
	mux.Handle("/api/drilldown/items", chain(http.HandlerFunc(s.handleDrilldownItems)))
	mux.Handle("/api/drilldown/invoices", chain(http.HandlerFunc(s.handleEntityInvoices)))
	mux.Handle("/api/vouchers", chain(http.HandlerFunc(s.handleVouchers)))
	mux.Handle("/api/refresh", chain(http.HandlerFunc(s.handleRefresh)))

	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/metrics", metrics.Handler())

	return s
}

// Shutdown stops the server and its background goroutines exactly once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Payload(map[string]string{"status": "ok"}).Write(w)
}

// extractClientIP resolves the client address, trusting proxy headers first.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

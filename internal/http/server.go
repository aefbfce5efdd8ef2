package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expenses/internal/cache"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

// Server exposes one ledger over HTTP.
type Server struct {
	http.Server
	svc         *services.ExpenseService
	symbol      string
	logger      *applog.Logger
	rateLimiter *rateLimiter
	metrics     securityMetrics
	renders     *cache.LRU[cache.ViewKey, []byte]

	shutdownOnce sync.Once
}

// NewServer registers every route on a fresh mux.
func NewServer(addr string, svc *services.ExpenseService, symbol string, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.FromSlog(nil)
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:         svc,
		symbol:      symbol,
		logger:      logger,
		rateLimiter: newRateLimiter(defaultRateLimit),
		renders:     cache.NewLRU[cache.ViewKey, []byte](8),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /expenses", s.withSecurityHeaders(s.handleListExpenses))
	mux.HandleFunc("POST /expenses", s.withSecurityHeaders(s.handleCreateExpense))
	mux.HandleFunc("POST /expenses/delete", s.withSecurityHeaders(s.handleDeleteMatching))
	mux.HandleFunc("DELETE /expenses/{id}", s.withSecurityHeaders(s.handleDeleteByID))
	mux.HandleFunc("GET /categories", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("GET /summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /summary/export", s.withSecurityHeaders(s.handleSummaryExport))
	mux.HandleFunc("GET /chart.svg", s.withSecurityHeaders(s.handleChart))
	mux.HandleFunc("GET /export.xlsx", s.withSecurityHeaders(s.handleXLSX))

	s.Handler = applog.Middleware(logger, extractClientIP)(mux)
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		w.Header().Set("X-Request-ID", requestID)

		if detectSuspiciousRequest(r, &s.metrics) {
			s.logger.WarnContext(r.Context(), "Suspicious request",
				"request_id", requestID,
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.UserAgent())
		}

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, &s.metrics) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				applog.FieldClientIP, clientIP, applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

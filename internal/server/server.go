// Package server assembles the HTTP surface: Connect services, health,
// metrics, and the static frontend.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/middleware"
	"github.com/mmynk/budgetlink/pkg/api/budgetv1/budgetv1connect"
)

// apiPrefix marks Connect procedure paths; they never fall back to index.html.
const apiPrefix = "/budgetlink.v1."

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MetricsSink receives per-RPC observations and serves /metrics.
type MetricsSink interface {
	middleware.RPCObserver
	Handler() http.Handler
}

// Options lists everything the server mounts. Nil Metrics disables /metrics,
// an empty StaticPath disables the frontend.
type Options struct {
	Budgets  budgetv1connect.BudgetServiceHandler
	Expenses budgetv1connect.ExpenseServiceHandler
	Settle   budgetv1connect.SettleServiceHandler

	Tokens     *auth.JWTManager
	Metrics    MetricsSink
	Health     Pinger
	StaticPath string
	Timeout    time.Duration
}

// Server is the BudgetLink HTTP server.
type Server struct {
	opts Options
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Server{opts: opts}
}

func (s *Server) interceptors() connect.HandlerOption {
	list := []connect.Interceptor{
		middleware.BudgetToken(s.opts.Tokens),
		middleware.LoggingInterceptor(),
	}
	if s.opts.Metrics != nil {
		list = append(list, middleware.MetricsInterceptor(s.opts.Metrics))
	}
	return connect.WithInterceptors(list...)
}

// Router returns the chi router with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(s.opts.Timeout))
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics.Handler())
	}

	opts := s.interceptors()
	r.Mount(budgetv1connect.NewBudgetServiceHandler(s.opts.Budgets, opts))
	r.Mount(budgetv1connect.NewExpenseServiceHandler(s.opts.Expenses, opts))
	r.Mount(budgetv1connect.NewSettleServiceHandler(s.opts.Settle, opts))

	if s.opts.StaticPath != "" {
		r.NotFound(s.staticHandler())
	}

	return r
}

// Handler wraps the router with h2c for HTTP/2 without TLS (required for Connect streaming clients).
func (s *Server) Handler() http.Handler {
	return h2c.NewHandler(s.Router(), &http2.Server{})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health.Ping(r.Context()); err != nil {
			slog.Error("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// staticHandler serves the frontend, falling back to index.html for unknown paths.
func (s *Server) staticHandler() http.HandlerFunc {
	staticDir, err := filepath.Abs(s.opts.StaticPath)
	if err != nil {
		staticDir = s.opts.StaticPath
	}
	slog.Info("Serving static files", "path", staticDir)

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, apiPrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package http exposes the JSON API: auth, transactions, categories,
// budgets, and the AI endpoints, plus health probes.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bagiswari/finance-tracker/internal/auth"
	"github.com/Bagiswari/finance-tracker/internal/core"
	applog "github.com/Bagiswari/finance-tracker/internal/log"
	"github.com/Bagiswari/finance-tracker/internal/services"
	"github.com/Bagiswari/finance-tracker/internal/storage"
)

// The server depends on narrow views of the service layer so handler
// tests can substitute scripted implementations.
type (
	AuthService interface {
		Register(ctx context.Context, email, password, fullName string) (core.User, string, error)
		Login(ctx context.Context, email, password string) (core.User, string, error)
		Profile(ctx context.Context, userID int64) (core.User, error)
	}

	TransactionService interface {
		Create(ctx context.Context, userID int64, in services.CreateTransactionInput) (core.Transaction, error)
		Get(ctx context.Context, id, userID int64) (core.Transaction, error)
		List(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error)
		Update(ctx context.Context, id, userID int64, in services.UpdateTransactionInput) (core.Transaction, error)
		Delete(ctx context.Context, id, userID int64) error
		MonthlySummary(ctx context.Context, userID int64, month, year int) (core.MonthlySummary, error)
		Analytics(ctx context.Context, userID int64, start, end *core.Date) (core.Analytics, error)
	}

	CategoryService interface {
		List(ctx context.Context, userID int64) ([]core.Category, error)
		Create(ctx context.Context, userID int64, name string, typ core.TransactionType, icon string) (core.Category, error)
	}

	BudgetService interface {
		Set(ctx context.Context, userID, categoryID int64, amount decimal.Decimal, month, year int) (core.Budget, error)
		List(ctx context.Context, userID int64, month, year int) ([]core.Budget, error)
		Alerts(ctx context.Context, userID int64, month, year int) ([]core.Alert, error)
		Delete(ctx context.Context, id, userID int64) error
	}

	Categorizer interface {
		Suggest(ctx context.Context, description string, amount decimal.Decimal, typ core.TransactionType) (services.Suggestion, error)
	}

	InsightsService interface {
		Insights(ctx context.Context, userID int64, month, year int) (services.InsightsResult, error)
		BudgetSuggestions(ctx context.Context, userID int64, month, year int) (services.BudgetSuggestionResult, error)
	}
)

// Deps bundles everything the server routes to.
type Deps struct {
	Tokens       *auth.TokenIssuer
	Auth         AuthService
	Transactions TransactionService
	Categories   CategoryService
	Budgets      BudgetService
	Categorizer  Categorizer
	Insights     InsightsService
}

type Server struct {
	http.Server
	deps         Deps
	rateLimiter  *rateLimiter
	log          *applog.Logger
	shutdownOnce sync.Once
}

// NewServer configures all routes and returns a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		deps:        deps,
		rateLimiter: newRateLimiter(),
		log:         applog.ForComponent("http"),
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.with(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.with(s.handleLogin))
	mux.HandleFunc("GET /api/auth/profile", s.protected(s.handleProfile))

	mux.HandleFunc("GET /api/transactions", s.protected(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.protected(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/summary", s.protected(s.handleMonthlySummary))
	mux.HandleFunc("GET /api/transactions/analytics", s.protected(s.handleAnalytics))
	mux.HandleFunc("GET /api/transactions/{id}", s.protected(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.protected(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.protected(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/categories", s.protected(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.protected(s.handleCreateCategory))

	mux.HandleFunc("GET /api/budgets", s.protected(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.protected(s.handleSetBudget))
	mux.HandleFunc("GET /api/budgets/alerts", s.protected(s.handleBudgetAlerts))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.protected(s.handleDeleteBudget))

	mux.HandleFunc("POST /api/ai/categorize", s.protected(s.handleCategorize))
	mux.HandleFunc("GET /api/ai/insights", s.protected(s.handleInsights))
	mux.HandleFunc("GET /api/ai/budget-suggestions", s.protected(s.handleBudgetSuggestions))

	return s
}

// protected chains the common middleware with token authentication.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return s.with(s.deps.Tokens.Middleware(next))
}

// with adds request logging, security headers, and rate limiting.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.log.DebugContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Writes are rate limited per client; reads are not.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.log.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			s.writeJSON(w, http.StatusTooManyRequests, envelope{
				Success: false,
				Message: "Rate limit exceeded. Please try again later.",
			})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.log.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// statusWriter captures the status code for the completion log line.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// Shutdown stops the rate limiter cleanup and drains in-flight
// requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	s.respondData(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Package http exposes the tracker over a JSON API: expenses, categories,
// budgets, recurring templates, bills, suggestions, and derived summaries.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"spendtrack/internal/cache"
	"spendtrack/internal/core"
	"spendtrack/internal/log"
	"spendtrack/internal/services"
)

// Services bundles the application services the server fronts.
type Services struct {
	Expenses    *services.ExpenseService
	Categories  *services.CategoryService
	Budgets     *services.BudgetService
	Recurring   *services.RecurringService
	Bills       *services.BillService
	Suggestions *services.SuggestionService
	Insights    *services.InsightService
}

// Options tunes server behavior; zero values get sensible defaults.
type Options struct {
	CacheSize      int
	CacheTTL       time.Duration
	WriteRateLimit int
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	svc        Services

	// Derived-state caches, purged wholesale on any write.
	summaryCache *cache.LRUCache[core.MonthSummary]
	insightCache *cache.LRUCache[[]core.Insight]
	cacheManager *cache.Manager

	limiter *rateLimiter
}

func NewServer(addr string, svc Services, logger *log.Logger, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.WriteRateLimit <= 0 {
		opts.WriteRateLimit = 60
	}

	s := &Server{
		logger:       logger.WithComponent(log.ComponentHTTP),
		svc:          svc,
		summaryCache: cache.NewLRUCache[core.MonthSummary](opts.CacheSize, opts.CacheTTL),
		insightCache: cache.NewLRUCache[[]core.Insight](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(),
		limiter:      newRateLimiter(opts.WriteRateLimit, time.Minute),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.insightCache)
	s.cacheManager.StartCleanup(opts.CacheTTL)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware(s.logger))
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(writeLimitMiddleware(s.limiter))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", s.handleCreateExpense)
			r.Get("/", s.handleListExpenses)
			r.Get("/{id}", s.handleGetExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.handleCreateCategory)
			r.Get("/", s.handleListCategories)
			r.Put("/{name}", s.handleRenameCategory)
			r.Delete("/{name}", s.handleDeleteCategory)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Put("/", s.handleSetBudget)
			r.Get("/", s.handleListBudgets)
			r.Get("/progress", s.handleBudgetProgress)
			r.Delete("/{category}", s.handleDeleteBudget)
		})

		r.Route("/recurring", func(r chi.Router) {
			r.Post("/", s.handleCreateRecurring)
			r.Get("/", s.handleListRecurring)
			r.Post("/{id}/toggle", s.handleToggleRecurring)
			r.Post("/process", s.handleProcessRecurring)
			r.Delete("/{id}", s.handleDeleteRecurring)
		})

		r.Route("/bills", func(r chi.Router) {
			r.Post("/", s.handleCreateBill)
			r.Get("/", s.handleListBills)
			r.Post("/{id}/pay", s.handlePayBill)
			r.Delete("/{id}", s.handleDeleteBill)
		})

		r.Route("/suggestions", func(r chi.Router) {
			r.Post("/", s.handleAddSuggestion)
			r.Get("/", s.handleListSuggestions)
			r.Get("/suggest", s.handleSuggest)
			r.Delete("/{id}", s.handleDeleteSuggestion)
		})

		r.Get("/summary", s.handleSummary)
		r.Get("/insights", s.handleInsights)
	})

	return r
}

// invalidateDerived drops cached summaries and insights after any write
// that can change them.
func (s *Server) invalidateDerived() {
	s.summaryCache.Purge()
	s.insightCache.Purge()
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	s.cacheManager.Stop()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

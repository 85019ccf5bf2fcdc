// Package http exposes the dashboard's REST API and the embedded web
// UI on top of the analytics and seeding services.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"salesboard/internal/cache"
	"salesboard/internal/core"
	"salesboard/internal/services"
	appweb "salesboard/web"
)

// Analytics is the query surface the handlers depend on.
// *services.Analytics satisfies it; tests inject fakes.
type Analytics interface {
	Transactions(ctx context.Context, month, page, perPage int, search string) ([]core.Transaction, error)
	Statistics(ctx context.Context, month int) (core.Statistics, error)
	PriceBuckets(ctx context.Context, month int) ([]core.PriceBucket, error)
	CategoryCounts(ctx context.Context, month int) ([]core.CategoryCount, error)
	Combined(ctx context.Context, month, page, perPage int, search string) (*core.CombinedView, error)
}

// SeedRunner triggers a wholesale reseed of the store.
type SeedRunner interface {
	Seed(ctx context.Context) (services.SeedResult, error)
}

// StorePinger reports store reachability for the readiness probe.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the HTTP layer; zero values get sensible defaults.
type Options struct {
	CORSAllowedOrigins []string
	CacheTTL           time.Duration
	CacheMaxEntries    int
}

type Server struct {
	http.Server
	analytics Analytics
	seeder    SeedRunner
	store     StorePinger
	templates *template.Template
	limiter   *rateLimiter

	// Month-keyed caches for the chart/statistics aggregates. Purged
	// wholesale on reseed; listing responses are not cached because
	// page and search fan the key space out too far to be worth it.
	statsCache *cache.LRUCache[core.Statistics]
	barCache   *cache.LRUCache[[]core.PriceBucket]
	pieCache   *cache.LRUCache[[]core.CategoryCount]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes, middleware and the embedded UI,
// returning a ready-to-run server.
func NewServer(addr string, analytics Analytics, seeder SeedRunner, store StorePinger, opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheMaxEntries <= 0 {
		opts.CacheMaxEntries = 100
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}

	s := &Server{
		analytics:        analytics,
		seeder:           seeder,
		store:            store,
		limiter:          newRateLimiter(seedRequestsPerMinute),
		statsCache:       cache.NewLRUCache[core.Statistics](opts.CacheMaxEntries, opts.CacheTTL),
		barCache:         cache.NewLRUCache[[]core.PriceBucket](opts.CacheMaxEntries, opts.CacheTTL),
		pieCache:         cache.NewLRUCache[[]core.CategoryCount](opts.CacheMaxEntries, opts.CacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	if t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html"); err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	} else {
		s.templates = t
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.withRequestLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.With(s.withRateLimit).Get("/initialize", s.handleInitialize)
		r.Get("/transactions", s.handleTransactions)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/bar-chart", s.handleBarChart)
		r.Get("/pie-chart", s.handlePieChart)
		r.Get("/combined", s.handleCombined)
	})

	// Embedded dashboard UI.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, req)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}
	r.Get("/", s.handleIndex)

	s.Server.Addr = addr
	s.Server.Handler = r

	go s.startCacheCleanup()
	return s
}

const cacheCleanupInterval = 10 * time.Minute

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(cacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := s.statsCache.CleanExpired() + s.barCache.CleanExpired() + s.pieCache.CleanExpired()
			if cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// InvalidateCaches drops every cached aggregate. Called after a
// successful in-process reseed and on dataset-reseeded events from
// other processes; either way all months are invalid at once.
func (s *Server) InvalidateCaches() {
	s.statsCache.Purge()
	s.barCache.Purge()
	s.pieCache.Purge()
}

// Shutdown gracefully stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Months       []time.Month
		DefaultMonth int
	}{
		Months:       months(),
		DefaultMonth: 3, // dashboard opens on March
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func months() []time.Month {
	out := make([]time.Month, 12)
	for i := range out {
		out[i] = time.Month(i + 1)
	}
	return out
}

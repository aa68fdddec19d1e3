package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"finassist/internal/cache"
	"finassist/internal/core"
	"finassist/internal/log"
	"finassist/internal/middleware/ratelimit"
	"finassist/internal/middleware/security"
	"finassist/internal/middleware/trace"
	"finassist/internal/records"
	"finassist/internal/sentiment"
)

// Ledger is the set of ledger operations the API serves.
type Ledger interface {
	RecordTransaction(ctx context.Context, kind core.Kind, tx core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, kind core.Kind) ([]core.Transaction, error)
	ForecastNextMonth(ctx context.Context, kind core.Kind, now time.Time) float64
	SetBudget(ctx context.Context, b core.Budget) error
	GetBudget(ctx context.Context, month string) (core.Budget, error)
	AddSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
	ContributeToGoal(ctx context.Context, name string, amount core.Money) (core.SavingsGoal, error)
	ListGoals(ctx context.Context, now time.Time) ([]core.GoalProgress, error)
	LogSentiment(ctx context.Context, text string, now time.Time) (core.SentimentEntry, sentiment.Band, error)
	ListSentiment(ctx context.Context) ([]core.SentimentEntry, error)
	Dashboard(ctx context.Context, now time.Time) (core.Dashboard, error)
	Ping(ctx context.Context) error
}

type taxonomyJSON struct {
	Categories []string `json:"categories"`
	Sources    []string `json:"sources"`
}

const taxonomyCacheKey = "taxonomy"

type Server struct {
	http.Server
	ledger   Ledger
	taxonomy records.TaxonomyReader
	logger   *log.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	// budgets are cached per month and dropped on every PUT /budget.
	budgetCache   *cache.LRUCache[core.Budget]
	taxonomyCache *cache.LRUCache[taxonomyJSON]
	caches        *cache.Manager

	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ledger Ledger, tax records.TaxonomyReader, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentHTTP)
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		ledger:        ledger,
		taxonomy:      tax,
		logger:        logger,
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:      security.NewDetector(),
		budgetCache:   cache.NewLRUCache[core.Budget](24, 5*time.Minute),
		taxonomyCache: cache.NewLRUCache[taxonomyJSON](1, 10*time.Minute),
		caches:        cache.NewManager(logger),
		now:           time.Now,
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	s.caches.Register(s.budgetCache)
	s.caches.Register(s.taxonomyCache)
	s.caches.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/expenses", s.handleTransactions(core.KindExpense))
	mux.HandleFunc("/income", s.handleTransactions(core.KindIncome))
	mux.HandleFunc("/budget", s.handleBudget)
	mux.HandleFunc("/goals", s.handleGoals)
	mux.HandleFunc("/goals/contributions", s.handleGoalContribution)
	mux.HandleFunc("/sentiment", s.handleSentiment)
	mux.HandleFunc("/forecast", s.handleForecast)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/categories", s.handleCategories)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit, http.MethodPost, http.MethodPut)(handler)
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	TooManyRequestsError().Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()
	if err := s.ledger.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
		ErrorResponse(http.StatusServiceUnavailable, "store unavailable").Write(w)
		return
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}

func (s *Server) getBudget(ctx context.Context, month string) (core.Budget, error) {
	if b, ok := s.budgetCache.Get(month); ok {
		log.FromContext(ctx).DebugContext(ctx, "Budget cache hit", log.FieldMonth, month)
		return b, nil
	}
	cctx, cancel := withStoreTimeout(ctx)
	defer cancel()
	b, err := s.ledger.GetBudget(cctx, month)
	if err != nil {
		return core.Budget{}, err
	}
	s.budgetCache.Set(month, b)
	return b, nil
}

func (s *Server) getTaxonomy(ctx context.Context) (taxonomyJSON, error) {
	if t, ok := s.taxonomyCache.Get(taxonomyCacheKey); ok {
		return t, nil
	}
	if s.taxonomy == nil {
		return taxonomyJSON{Categories: []string{}, Sources: []string{}}, nil
	}
	cctx, cancel := withStoreTimeout(ctx)
	defer cancel()
	cats, srcs, err := s.taxonomy.ListTaxonomy(cctx)
	if err != nil {
		return taxonomyJSON{}, err
	}
	t := taxonomyJSON{Categories: cats, Sources: srcs}
	s.taxonomyCache.Set(taxonomyCacheKey, t)
	return t, nil
}

// ListenAndServe runs the server until it is shut down. A clean shutdown is
// not reported as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.Addr)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

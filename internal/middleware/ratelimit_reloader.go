package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"go.uber.org/zap"

	"github.com/benvon/deerdiary/internal/database"
	logpkg "github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/models"
	"github.com/benvon/deerdiary/internal/request"
)

// RatelimitConfigStore reads and seeds the stored rate limit. A nil config means none is stored.
type RatelimitConfigStore interface {
	GetRatelimitConfig(ctx context.Context) (*models.RatelimitConfig, error)
	SetRatelimitConfig(ctx context.Context, cfg *models.RatelimitConfig) error
}

var _ RatelimitConfigStore = (*database.Connector)(nil)

// RateLimitReloader wraps ulule/limiter and periodically reloads the rate from the settings table.
type RateLimitReloader struct {
	next        http.Handler
	store       limiter.Store
	config      RatelimitConfigStore
	defaultRate string
	log         *zap.Logger
	interval    time.Duration
	mu          sync.RWMutex
	current     http.Handler
	rate        string
}

// NewRateLimitReloader creates a rate limit middleware over a limiter store (Redis in production).
func NewRateLimitReloader(store limiter.Store, config RatelimitConfigStore, defaultRate string, log *zap.Logger, reloadInterval time.Duration) (*RateLimitReloader, error) {
	if store == nil {
		return nil, fmt.Errorf("rate limiter store is required")
	}
	if defaultRate == "" {
		defaultRate = DefaultRatelimitRate
	}
	if _, err := limiter.NewRateFromFormatted(defaultRate); err != nil {
		return nil, fmt.Errorf("invalid default rate %q: %w", defaultRate, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimitReloader{
		store:       store,
		config:      config,
		defaultRate: defaultRate,
		log:         log,
		interval:    reloadInterval,
	}, nil
}

// Middleware returns a middleware that wraps next with rate limiting and hot-reload.
func (r *RateLimitReloader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		r.next = next
		r.load(context.Background())
		return r
	}
}

// Start runs the reload loop until ctx is cancelled. Call after Middleware() is applied.
func (r *RateLimitReloader) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.load(ctx)
		}
	}
}

// Rate returns the formatted rate currently enforced
func (r *RateLimitReloader) Rate() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rate
}

// resolveRate picks the stored rate, seeding the default when no row exists
func (r *RateLimitReloader) resolveRate(ctx context.Context) string {
	if r.config == nil {
		return r.defaultRate
	}
	cfg, err := r.config.GetRatelimitConfig(ctx)
	if err != nil {
		r.log.Warn("failed_to_load_ratelimit_config_using_default",
			zap.String("error", logpkg.SanitizeError(err)),
			zap.String("default_rate", r.defaultRate),
		)
		return r.defaultRate
	}
	if cfg != nil && cfg.Rate != "" {
		return cfg.Rate
	}
	if err := r.config.SetRatelimitConfig(ctx, &models.RatelimitConfig{Rate: r.defaultRate}); err != nil {
		r.log.Error("failed_to_save_default_ratelimit_config",
			zap.String("error", logpkg.SanitizeError(err)),
			zap.String("default_rate", r.defaultRate),
		)
	}
	return r.defaultRate
}

func (r *RateLimitReloader) load(ctx context.Context) {
	if r.next == nil {
		return
	}

	rateStr := r.resolveRate(ctx)
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		r.log.Error("failed_to_parse_rate_limit_using_default",
			zap.Error(err),
			zap.String("rate_str", rateStr),
			zap.String("default_rate", r.defaultRate),
		)
		rateStr = r.defaultRate
		rate, _ = limiter.NewRateFromFormatted(rateStr)
	}

	r.mu.RLock()
	unchanged := r.current != nil && r.rate == rateStr
	r.mu.RUnlock()
	if unchanged {
		return
	}

	instance := limiter.New(r.store, rate)
	mw := stdlibmw.NewMiddleware(instance,
		stdlibmw.WithKeyGetter(request.ClientIP),
		stdlibmw.WithLimitReachedHandler(func(w http.ResponseWriter, req *http.Request) {
			respondErrorJSON(w, req, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded", r.log)
		}),
	)
	h := mw.Handler(r.next)

	r.mu.Lock()
	r.current = h
	r.rate = rateStr
	r.mu.Unlock()

	r.log.Info("ratelimit_config_loaded", zap.String("rate", rateStr))
}

// ServeHTTP implements http.Handler.
func (r *RateLimitReloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	h := r.current
	r.mu.RUnlock()
	if h != nil {
		h.ServeHTTP(w, req)
		return
	}
	if r.next != nil {
		r.next.ServeHTTP(w, req)
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/benvon/deerdiary/internal/database"
	logpkg "github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/models"
)

const (
	defaultCorsOrigin = "http://localhost:3000"
	defaultCorsMaxAge = 86400
)

// CorsConfigSource reads the stored CORS settings. A nil config means none is stored.
type CorsConfigSource interface {
	GetCorsConfig(ctx context.Context) (*models.CorsConfig, error)
}

var _ CorsConfigSource = (*database.Connector)(nil)

// CORSReloader wraps rs/cors and periodically reloads its options from the settings table.
type CORSReloader struct {
	next     http.Handler
	source   CorsConfigSource
	fallback string // FRONTEND_URL
	log      *zap.Logger
	interval time.Duration
	mu       sync.RWMutex
	current  http.Handler
}

// NewCORSReloader creates a CORS middleware that falls back to frontendURL when no settings row exists
// or the store is unreachable.
func NewCORSReloader(source CorsConfigSource, frontendURL string, log *zap.Logger, reloadInterval time.Duration) *CORSReloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &CORSReloader{
		source:   source,
		fallback: strings.TrimSpace(frontendURL),
		log:      log,
		interval: reloadInterval,
	}
}

// Middleware returns a middleware that wraps next with CORS and hot-reload.
func (r *CORSReloader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		r.next = next
		r.load(context.Background())
		return r
	}
}

// Start runs the reload loop until ctx is cancelled. Call after Middleware() is applied.
func (r *CORSReloader) Start(ctx context.Context) {
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

// Options resolves the CORS options from cfg, using the fallback origins when cfg is nil
func (r *CORSReloader) Options(cfg *models.CorsConfig) cors.Options {
	origins := database.AllowedOriginsSlice(r.fallback)
	allowCreds := true
	maxAge := defaultCorsMaxAge
	if cfg != nil {
		origins = database.AllowedOriginsSlice(cfg.AllowedOrigins)
		allowCreds = cfg.AllowCredentials
		maxAge = cfg.MaxAge
	}
	if len(origins) == 0 {
		origins = []string{defaultCorsOrigin}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: allowCreds,
		MaxAge:           maxAge,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
	}
}

func (r *CORSReloader) load(ctx context.Context) {
	if r.next == nil {
		return
	}

	var cfg *models.CorsConfig
	if r.source != nil {
		loaded, err := r.source.GetCorsConfig(ctx)
		if err != nil {
			r.log.Warn("failed_to_load_cors_config_using_fallback",
				zap.String("error", logpkg.SanitizeError(err)),
			)
		} else {
			cfg = loaded
		}
	}

	h := cors.New(r.Options(cfg)).Handler(r.next)
	r.mu.Lock()
	r.current = h
	r.mu.Unlock()
}

// ServeHTTP implements http.Handler.
func (r *CORSReloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
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

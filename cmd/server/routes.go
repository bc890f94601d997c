package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/benvon/deerdiary/internal/database"
	"github.com/benvon/deerdiary/internal/diary"
	"github.com/benvon/deerdiary/internal/handlers"
	"github.com/benvon/deerdiary/internal/middleware"
	"github.com/benvon/deerdiary/internal/queue"
	"github.com/benvon/deerdiary/internal/telemetry"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// routerDeps is everything the router needs. Optional parts are nil when their backend is not configured.
type routerDeps struct {
	logger      *zap.Logger
	location    *time.Location
	notes       database.NoteStoreOpener
	summaries   database.SummaryStoreOpener
	composer    *diary.Composer
	themes      handlers.ThemeStore
	jobQueue    queue.Publisher
	health      *handlers.HealthChecker
	cors        func(http.Handler) http.Handler
	rateLimit   func(http.Handler) http.Handler
	openAPIPath string
	enableHSTS  bool
	tracing     bool
}

// newRouter wires handlers and middleware.
// gorilla/mux runs middleware in registration order, outermost first.
func newRouter(d routerDeps) *mux.Router {
	r := mux.NewRouter()

	if d.tracing {
		r.Use(otelmux.Middleware(telemetry.APIServiceName))
	}
	r.Use(middleware.SecurityHeaders(d.enableHSTS))
	if d.cors != nil {
		r.Use(d.cors)
	}
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(d.logger))
	r.Use(middleware.Audit(d.logger))
	r.Use(middleware.Logging(d.logger))

	// Probes stay outside the rate limit
	r.HandleFunc("/healthz", d.health.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")
	handlers.NewOpenAPIHandler(d.openAPIPath).RegisterRoutes(r)

	api := r.PathPrefix("/api").Subrouter()
	if d.rateLimit != nil {
		api.Use(d.rateLimit)
	}

	notesOpts := []handlers.NotesHandlerOption{handlers.WithNotesLocation(d.location)}
	if d.summaries != nil {
		notesOpts = append(notesOpts, handlers.WithNotesSummaries(d.summaries))
	}
	if d.jobQueue != nil {
		notesOpts = append(notesOpts, handlers.WithNotesJobQueue(d.jobQueue))
	}
	handlers.NewNotesHandler(d.notes, d.logger, notesOpts...).RegisterRoutes(api.PathPrefix("/notes").Subrouter())
	handlers.NewComposerHandler(d.composer, d.logger).RegisterRoutes(api.PathPrefix("/composer").Subrouter())
	handlers.NewHistoryHandler(d.composer, d.location).RegisterRoutes(api.PathPrefix("/history").Subrouter())
	handlers.NewPreferencesHandler(d.themes, d.logger).RegisterRoutes(api.PathPrefix("/preferences").Subrouter())
	api.HandleFunc("/tags", handlers.ListTags).Methods("GET")

	// Preflight requests are answered by the CORS middleware; this only gives them a route to match
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":%q,"timestamp":%q}`+"\n", version, time.Now().UTC().Format(time.RFC3339))
}

// Package server exposes the amortization engine and saved scenarios over HTTP.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/loan-amortizer/internal/metrics"
	"github.com/iwvelando/loan-amortizer/internal/store/sqlite"
	"github.com/iwvelando/loan-amortizer/internal/tracing"
	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ScenarioStore persists saved scenarios. *sqlite.Store implements it.
type ScenarioStore interface {
	CreateScenario(ctx context.Context, sc *sqlite.Scenario) error
	GetScenario(ctx context.Context, id string) (*sqlite.Scenario, error)
	ListScenarios(ctx context.Context) ([]sqlite.Scenario, error)
	DeleteScenario(ctx context.Context, id string) error
	UpdateExtraPayments(ctx context.Context, scenarioID string, fn func(*loans.ExtraPaymentSet) error) (*sqlite.Scenario, error)
}

// periodLimiter is implemented by stores that validate loan terms themselves.
type periodLimiter interface {
	SetMaxPeriods(maxPeriods int)
}

type handler struct {
	logger      *zap.Logger
	store       ScenarioStore
	maxBodySize int64
	maxPeriods  int
	version     string
}

// NewHandler constructs the HTTP handler serving the schedule API. Scenario
// routes are only mounted when store is not nil.
func NewHandler(logger *zap.Logger, cfg *Config, store ScenarioStore, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		store:       store,
		maxBodySize: cfg.BodySizeBytes(),
		maxPeriods:  cfg.MaxPeriods,
		version:     trimmedVersion,
	}

	// Keep the store's term limit in step with the generator's.
	if limiter, ok := store.(periodLimiter); ok {
		limiter.SetMaxPeriods(cfg.MaxPeriods)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)

		r.Route("/schedule", func(r chi.Router) {
			r.Post("/", h.handleSchedule)
			r.Post("/upload", h.handleScheduleUpload)
			r.Post("/export", h.handleScheduleExport)
		})

		// Config serialization endpoint for editor downloads
		r.Post("/config/export", h.handleConfigExport)

		if store != nil {
			r.Route("/scenarios", func(r chi.Router) {
				r.Get("/", h.handleListScenarios)
				r.Post("/", h.handleCreateScenario)
				r.Get("/{id}", h.handleGetScenario)
				r.Delete("/{id}", h.handleDeleteScenario)
				r.Get("/{id}/schedule", h.handleScenarioSchedule)
				r.Post("/{id}/extra-payments", h.handleAddExtraPayment)
				r.Put("/{id}/extra-payments/{paymentID}", h.handleUpdateExtraPayment)
				r.Delete("/{id}/extra-payments/{paymentID}", h.handleDeleteExtraPayment)
			})
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// instrument wraps every request in a span, counts it and logs it.
func (h *handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := tracing.Tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		metrics.Requests.WithLabelValues(route, metrics.StatusClass(status)).Inc()

		h.logger.Debug("request handled",
			zap.String("op", "server.instrument"),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

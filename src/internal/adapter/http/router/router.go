package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

type RouteRegistrar interface {
	RegisterRoutes(r *mux.Router)
}

// HealthCheck reports whether the backing store is reachable. Nil means
// always healthy.
type HealthCheck func(ctx context.Context) error

// New mounts every registrar under /api/v1 behind authMiddleware. Health,
// metrics and the API docs stay public.
func New(authMiddleware func(http.Handler) http.Handler, health HealthCheck, registrars ...RouteRegistrar) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.HandleFunc("/health", healthHandler(health)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	registerSwaggerRoutes(r)

	api := r.PathPrefix("/api/v1").Subrouter()
	if authMiddleware != nil {
		api.Use(authMiddleware)
	}
	for _, registrar := range registrars {
		if registrar != nil {
			registrar.RegisterRoutes(api)
		}
	}

	return r
}

func healthHandler(check HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Error("health check failed", err, nil)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// Package ops serves the operational HTTP endpoints that sit next to the
// protocol listener: liveness, readiness and prometheus metrics.
package ops

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Bazaar/pkg/kit"
)

const readyTimeout = 1 * time.Second

// Pinger reports whether a dependency is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPDeps struct {
	Log      *zap.Logger
	Registry *prometheus.Registry

	// MetricsTokenHash is a bcrypt hash; when set /metrics needs the token.
	MetricsTokenHash string
}

// NewHandler builds the ops router. Every pinger must succeed for /readyz
// to report ready.
func NewHandler(deps HTTPDeps, pingers ...Pinger) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(kit.AccessLog(log, "/healthz", "/readyz", "/metrics"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(log, pingers))

	setupMetrics(r, deps)
	return r
}

func setupMetrics(r chi.Router, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	h := promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	if deps.MetricsTokenHash == "" {
		r.Handle("/metrics", h)
		return
	}
	r.With(kit.MetricsAuth(deps.MetricsTokenHash)).Handle("/metrics", h)
}

func readyz(log *zap.Logger, pingers []Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, p := range pingers {
			if err := p.Ping(ctx); err != nil {
				log.Warn("readyz failed", zap.Error(err))
				kit.WriteStatus(w, r, http.StatusServiceUnavailable, "not ready", err, nil)
				return
			}
		}
		kit.WriteStatus(w, r, http.StatusOK, "ready", nil, nil)
	}
}

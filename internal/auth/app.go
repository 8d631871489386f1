package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ScanTill/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

const (
	loginLimitPerMin    = 5
	registerLimitPerMin = 3
	limitWindow         = 60 * time.Second
)

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	if deps.Registry != nil {
		metrics := kit.NewMetrics(deps.Registry)
		r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

		if deps.MetricsEnabled {
			r.With(kit.MetricsAuth(deps.MetricsToken)).
				Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
		}
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, int(limitWindow.Seconds()))
	registerLimiter := kit.NewIPRateLimiter(registerLimitPerMin, int(limitWindow.Seconds()))

	r.With(registerLimiter.Middleware).Post("/api/auth/register", s.handleRegister)
	r.With(loginLimiter.Middleware).Post("/api/auth/login", s.handleLogin)
	r.Get("/api/auth/whoami", s.handleWhoAmI)

	return r
}

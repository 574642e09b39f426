package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/notkisk/policeplus-api/internal/accounts"
	"github.com/notkisk/policeplus-api/internal/insurance"
	"github.com/notkisk/policeplus-api/internal/observability"
	"github.com/notkisk/policeplus-api/internal/vehicles"
	"github.com/notkisk/policeplus-api/jobs"
)

// RouterParams groups dependencies for building the API router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AccountsHandler *accounts.Handler
	VehiclesHandler *vehicles.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
	// DisableRequestLog turns off chi's request logger, used by tests.
	DisableRequestLog bool
}

// NewRouter constructs the API chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	mwCfg := MiddlewareConfig{Logger: params.Logger, Metrics: params.Metrics}
	if params.Config != nil {
		mwCfg.Production = params.Config.IsProduction()
		mwCfg.RequestTimeout = params.Config.AppRequestTimeout
		mwCfg.RateLimit = params.Config.RateLimit
	}
	for _, mw := range MiddlewareStack(mwCfg) {
		r.Use(mw)
	}
	if !params.DisableRequestLog {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", healthz)
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	params.AccountsHandler.MountRoutes(r)
	params.VehiclesHandler.MountRoutes(r)

	return r
}

// InsuranceRouterParams groups dependencies for the insurance service router.
type InsuranceRouterParams struct {
	Logger            *slog.Logger
	Config            *InsuranceConfig
	Handler           *insurance.Handler
	Metrics           *observability.Metrics
	DisableRequestLog bool
}

// NewInsuranceRouter constructs the insurance service chi.Router.
func NewInsuranceRouter(params InsuranceRouterParams) http.Handler {
	r := chi.NewRouter()

	mwCfg := MiddlewareConfig{Logger: params.Logger, Metrics: params.Metrics}
	if params.Config != nil {
		mwCfg.Production = params.Config.IsProduction()
		mwCfg.RequestTimeout = params.Config.AppRequestTimeout
	}
	for _, mw := range MiddlewareStack(mwCfg) {
		r.Use(mw)
	}
	if !params.DisableRequestLog {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", healthz)
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	params.Handler.MountRoutes(r)
	return r
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

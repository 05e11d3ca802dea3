package handler

import (
	"net/http"

	"github.com/bhavanapatidar/goalsaver/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// RouterOptions selects the optional middleware of the advisor routes
type RouterOptions struct {
	Logger    *logrus.Logger
	JWTSecret string
	Limiter   middleware.Limiter
}

// NewRouter wires the API routes
func NewRouter(h *Handler, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.AccessLog(opts.Logger),
		middleware.Metrics,
		middleware.Recover(opts.Logger),
	)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Protected routes
	advice := api.NewRoute().Subrouter()
	if opts.JWTSecret != "" {
		advice.Use(middleware.AuthMiddleware(opts.JWTSecret, opts.Logger))
	}
	if opts.Limiter != nil {
		advice.Use(middleware.RateLimit(opts.Limiter, opts.Logger))
	}
	advice.HandleFunc("/savings-plan", h.SavingsPlan).Methods(http.MethodPost)
	advice.HandleFunc("/risk-profile", h.RiskProfile).Methods(http.MethodPost)

	return r
}

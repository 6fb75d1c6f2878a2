package api

import (
	"net/http"

	"fueleu-compliance-service/internal/api/handlers"
	"fueleu-compliance-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	log *zap.Logger,
	routeSvc *services.RouteService,
	complianceSvc *services.ComplianceService,
	bankingSvc *services.BankingService,
	poolingSvc *services.PoolingService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	routeHandler := &handlers.RouteHandler{Routes: routeSvc, Compliance: complianceSvc, Log: log}
	complianceHandler := &handlers.ComplianceHandler{Svc: complianceSvc, Log: log}
	bankingHandler := &handlers.BankingHandler{Svc: bankingSvc, Log: log}
	poolingHandler := &handlers.PoolingHandler{Svc: poolingSvc, Log: log}

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/routes", func(r chi.Router) {
		r.Get("/", routeHandler.List)
		r.Get("/comparison", routeHandler.Comparison)
		r.Post("/{routeId}/baseline", routeHandler.SetBaseline)
	})

	r.Route("/compliance", func(r chi.Router) {
		r.Get("/cb", complianceHandler.GetBalance)
		r.Get("/adjusted-cb", complianceHandler.GetAdjusted)
		r.Get("/all", complianceHandler.GetAll)
	})

	r.Route("/banking", func(r chi.Router) {
		r.Get("/records", bankingHandler.Records)
		r.Post("/bank", bankingHandler.Bank)
		r.Post("/apply", bankingHandler.Apply)
		r.Post("/reverse", bankingHandler.Reverse)
		r.Get("/available", bankingHandler.Available)
	})

	r.Route("/pools", func(r chi.Router) {
		r.Post("/", poolingHandler.Create)
		r.Get("/", poolingHandler.ListByYear)
		r.Get("/{id}", poolingHandler.GetByID)
	})

	return r
}

package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"fueleu-compliance-service/internal/adapters/repositories"
	"fueleu-compliance-service/internal/api"
	"fueleu-compliance-service/internal/config"
	"fueleu-compliance-service/internal/platform/db"
	"fueleu-compliance-service/internal/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires the SQLite adapters behind the repository ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer store.Close()

	// Initialize schema and seed route data on startup for local runs.
	if err := initAndSeed(store, cfg.SeedPath); err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	routeRepo := repositories.NewSqliteRouteRepository(store)
	complianceRepo := repositories.NewSqliteComplianceRepository(store)
	bankingRepo := repositories.NewSqliteBankingRepository(store)
	poolingRepo := repositories.NewSqlitePoolingRepository(store)

	routeSvc := services.NewRouteService(routeRepo)
	complianceSvc := services.NewComplianceService(routeRepo, complianceRepo, bankingRepo, cfg)
	bankingSvc := services.NewBankingService(bankingRepo, complianceRepo)
	poolingSvc := services.NewPoolingService(poolingRepo)

	router := api.NewRouter(logger, routeSvc, complianceSvc, bankingSvc, poolingSvc)

	logger.Info("server listening",
		zap.String("addr", ":"+cfg.Port),
		zap.String("target_intensity", cfg.TargetIntensity.String()),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logger.Fatal("server stopped", zap.Error(srv.ListenAndServe()))
}

func initAndSeed(store *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(store); err != nil {
		return err
	}

	return repositories.SeedFromJSON(store, seedPath)
}

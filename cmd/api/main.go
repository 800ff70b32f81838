package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"photoeccentric/adapters/api"
	"photoeccentric/adapters/catalog"
	"photoeccentric/adapters/diagnostics"
	"photoeccentric/adapters/mcmc"
	"photoeccentric/adapters/postgres"
	"photoeccentric/adapters/transit"
	"photoeccentric/app"
	"photoeccentric/internal/config"
	intfit "photoeccentric/internal/fit"
	"photoeccentric/ports"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	var repo ports.FitResultRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()

		runRepo := postgres.NewRunRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := runRepo.Migrate(ctx); err != nil {
			cancel()
			log.Fatalf("database migration failed: %v", err)
		}
		cancel()
		repo = runRepo
	} else {
		log.Printf("DATABASE_URL not set; runs will not be persisted")
	}

	var cat ports.CatalogPort
	if cfg.Paths.CatalogFile != "" {
		cat, err = catalog.Load(cfg.Paths.CatalogFile)
		if err != nil {
			log.Fatalf("catalog load failed: %v", err)
		}
	} else {
		log.Printf("CATALOG_FILE not set; target routes disabled")
	}

	rng := mcmc.NewSeededRNG()
	sampler := mcmc.NewEnsembleSampler(rng,
		mcmc.WithSeed(cfg.Sampler.Seed),
		mcmc.WithWorkers(cfg.Sampler.Workers),
	)
	driver := intfit.NewDriver(sampler, rng, diagnostics.NewExcelWriter(cfg.Paths.ArtifactsDir))
	service := app.NewService(transit.NewModel(), driver, repo)

	httpApp := api.NewApp(service, cat, repo)

	addr := ":" + cfg.Server.Port
	log.Printf("photoeccentric API listening on %s", addr)
	if err := http.ListenAndServe(addr, httpApp.Router()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/terrain.report/internal/api"
	"github.com/banshee-data/terrain.report/internal/config"
	"github.com/banshee-data/terrain.report/internal/profiledb"
	"github.com/banshee-data/terrain.report/internal/version"
)

var (
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	dbPath     = flag.String("db", "", "Path to the runs database (overrides config)")
	configPath = flag.String("config", "", "Path to a JSON config file")
	migrate    = flag.Bool("migrate", false, "Apply pending schema migrations on startup")
)

func main() {
	flag.Parse()

	var cfg *config.AnalysisConfig
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	settings := cfg.Resolve()
	if *listen != "" {
		settings.Listen = *listen
	}
	if *dbPath != "" {
		settings.DBPath = *dbPath
	}

	log.Printf("terrain.report %s (%s)", version.Version, version.GitSHA)

	db, err := profiledb.NewDB(settings.DBPath)
	if err != nil {
		log.Fatalf("failed to open runs database: %v", err)
	}
	defer db.Close()

	if *migrate {
		if err := db.MigrateUp(settings.MigrationsDir); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
		log.Printf("migrations applied from %s", settings.MigrationsDir)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		apiMux := api.NewServer(db, settings).ServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", apiMux))

		server := &http.Server{
			Addr:    settings.Listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", settings.Listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

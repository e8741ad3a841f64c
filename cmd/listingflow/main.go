package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/riandyrn/otelchi"

	"github.com/baytino/listingflow/internal/adapter/fsm"
	"github.com/baytino/listingflow/internal/adapter/otel"
	riveradapter "github.com/baytino/listingflow/internal/adapter/river"
	"github.com/baytino/listingflow/internal/adapter/sqlite"
	"github.com/baytino/listingflow/internal/app"

	handler "github.com/baytino/listingflow/internal/adapter/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("listingflow: %v", err)
	}
}

func run() error {
	// Best-effort: a missing .env file is fine, the environment wins.
	_ = godotenv.Load()

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "listingflow.db")

	retention, err := time.ParseDuration(envOrDefault("RETENTION_WINDOW", "48h"))
	if err != nil {
		return fmt.Errorf("parsing RETENTION_WINDOW: %w", err)
	}

	schedule, err := riveradapter.ParseSchedule(envOrDefault("PURGE_SCHEDULE", "0 2 * * *"))
	if err != nil {
		return fmt.Errorf("parsing PURGE_SCHEDULE: %w", err)
	}

	ctx := context.Background()

	// --- Observability ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}

	// --- Adapters (out) ---
	db, err := otel.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	store, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	defer store.Close()

	listingRepo := otel.NewTracingListingRepository(store.Listings)
	postRepo := otel.NewTracingPostRepository(store.Posts)

	clock := app.SystemClock{}
	sweeper := app.NewSweeper(listingRepo, clock)

	riverClient, err := riveradapter.Setup(ctx, db, sweeper, riveradapter.SlogMailer{}, schedule)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("river start: %w", err)
	}

	dispatcher := otel.NewTracingDispatcher(riveradapter.NewNotifier(riverClient))

	// --- Application ---
	validator := fsm.New()
	guard := app.NewGuard()

	listings := app.NewListingService(listingRepo, validator, guard, clock, retention)
	posts := app.NewModerationService(postRepo, validator, guard, dispatcher, clock)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware("listingflow", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("listingflow", "0.1.0"))
	handler.Register(api, listings, posts, sweeper)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("listingflow listening on :%s", port)
		log.Printf("API docs: http://localhost:%s/docs", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-done:
	}

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := riverClient.Stop(shutdownCtx); err != nil {
		log.Printf("river shutdown: %v", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("otel shutdown: %v", err)
	}

	log.Println("stopped")
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

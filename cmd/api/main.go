// cmd/api/main.go
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"

	"reclaim/internal/admingate"
	"reclaim/internal/clients"
	"reclaim/internal/lifecycle"
	"reclaim/internal/matching"
	"reclaim/internal/notification"
	"reclaim/internal/recordstore"
	"reclaim/internal/recordstore/postgres"
	"reclaim/internal/recordstore/sqlite"
	"reclaim/internal/stats"
	"reclaim/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()

	if endpoint := os.Getenv("OTLP_ENDPOINT"); endpoint != "" {
		shutdown, err := telemetry.Setup(ctx, "reclaim", endpoint)
		if err != nil {
			log.Fatalf("Failed to set up telemetry: %v", err)
		}
		defer shutdown(ctx)
	}

	store, err := openStore(getEnv("DATABASE_URL", "file:reclaim.db"))
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer store.Close()

	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" {
		secret, err = admingate.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate admin secret: %v", err)
		}
		log.Printf("ADMIN_SECRET not set, generated one for this run: %s", secret)
	}
	gate, err := admingate.New(secret)
	if err != nil {
		log.Fatalf("Failed to initialize admin gate: %v", err)
	}

	directory := clients.NewDirectoryClient(getEnv("DIRECTORY_URL", "http://localhost:8084"))

	notifier := notification.NewService(store)
	engine := lifecycle.NewService(store, notifier, directory)
	matcher := matching.NewService(store, notifier)
	aggregator := stats.NewService(store)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		lifecycle.NewHandler(engine, gate).Routes(r)
		matching.NewHandler(matcher).Routes(r)
		notification.NewHandler(notifier).Routes(r)
		stats.NewHandler(aggregator).Routes(r)
	})

	port := getEnv("PORT", "8080")
	log.Printf("Reclaim API listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

// openStore picks the store implementation from the DSN: postgres URLs get
// the production store, everything else is treated as a SQLite path.
func openStore(dsn string) (recordstore.Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		return postgres.New(db)
	}
	return sqlite.Open(strings.TrimPrefix(dsn, "file:"))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

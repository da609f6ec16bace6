package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"route-insight-service/internal/adapters/cache"
	"route-insight-service/internal/adapters/geocode"
	"route-insight-service/internal/api"
	"route-insight-service/internal/config"
	"route-insight-service/internal/platform/db"
	"route-insight-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres overlay store, Nominatim)
// behind ports and starts the HTTP server.
func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	dbPath := config.Get("DB_PATH", "data/app.db")
	databaseURL := os.Getenv("DATABASE_URL")

	ctx := context.Background()

	var (
		conn  *sql.DB
		store ports.OverlayStore
		err   error
	)
	// Postgres for shared deployments, local SQLite otherwise.
	if strings.TrimSpace(databaseURL) != "" {
		conn, err = db.OpenPostgres(databaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("open database")
		}
		if err := cache.InitPostgresSchema(ctx, conn); err != nil {
			logger.Fatal().Err(err).Msg("init schema")
		}
		store = cache.NewSQLOverlayStore(conn)
	} else {
		conn, err = db.OpenSqlite(dbPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("open database")
		}
		if err := cache.InitSqliteSchema(conn); err != nil {
			logger.Fatal().Err(err).Msg("init schema")
		}
		store = cache.NewSqliteOverlayStore(conn)
	}
	defer conn.Close()

	addressCache := cache.NewAddressCache(store, logger)
	if err := addressCache.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load address cache")
	}
	logger.Info().Int("entries", addressCache.Len()).Msg("address cache loaded")

	lookup := geocode.NewNominatimClient(logger)
	resolver := geocode.NewResolver(addressCache, lookup, logger)

	router := api.NewRouter(resolver, addressCache, logger)

	// Timeouts are tuned for cold-cache processing (external geocoding
	// latency on large uploads).
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

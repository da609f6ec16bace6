package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"route-insight-service/internal/adapters/cache"
	"route-insight-service/internal/adapters/geocode"
	"route-insight-service/internal/config"
	"route-insight-service/internal/platform/db"
	"route-insight-service/internal/ports"
	"route-insight-service/internal/services"
)

// routetool runs the pipeline offline: initialize the overlay schema,
// process a schedule CSV and print per-day statistics, or export the
// address cache snapshot for promotion into the bundled dataset.
func main() {
	csvPath := flag.String("csv", "", "schedule CSV file to process")
	exportPath := flag.String("export", "", "write the address cache snapshot to this file")
	initOnly := flag.Bool("init", false, "initialize the overlay schema and exit")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	ctx := context.Background()

	conn, store, err := openStore(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("open overlay store")
	}
	defer conn.Close()

	if *initOnly {
		logger.Info().Msg("schema ready")
		return
	}

	addressCache := cache.NewAddressCache(store, logger)
	if err := addressCache.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load address cache")
	}

	if *csvPath != "" {
		if err := processFile(ctx, *csvPath, addressCache, logger); err != nil {
			logger.Fatal().Err(err).Msg("process csv")
		}
	}

	if *exportPath != "" {
		snapshot, err := addressCache.Snapshot()
		if err != nil {
			logger.Fatal().Err(err).Msg("snapshot address cache")
		}
		if err := os.WriteFile(*exportPath, snapshot, 0o644); err != nil {
			logger.Fatal().Err(err).Msg("write snapshot")
		}
		logger.Info().Str("path", *exportPath).Msg("cache snapshot written")
	}

	if *csvPath == "" && *exportPath == "" {
		flag.Usage()
		os.Exit(2)
	}
}

// openStore initializes the overlay schema and returns the matching
// store: Postgres when DATABASE_URL is set, local SQLite otherwise.
func openStore(ctx context.Context) (*sql.DB, ports.OverlayStore, error) {
	databaseURL := os.Getenv("DATABASE_URL")

	if strings.TrimSpace(databaseURL) != "" {
		conn, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, cache.NewSQLOverlayStore(conn), nil
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	conn, err := db.OpenSqlite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cache.InitSqliteSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, cache.NewSqliteOverlayStore(conn), nil
}

func processFile(ctx context.Context, path string, addressCache *cache.AddressCache, logger zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()

	lookup := geocode.NewNominatimClient(logger)
	resolver := geocode.NewResolver(addressCache, lookup, logger)

	ds, err := services.ProcessRoute(ctx, f, resolver, logger)
	if err != nil {
		return err
	}

	fmt.Printf("records: %d  dates: %d\n", len(ds.Records), len(ds.UniqueDates))
	for _, s := range ds.DailyStats {
		fmt.Printf("%s  distance=%.2f km  time=%.2f h  stops=%d\n",
			s.Date, s.DistanceKm, s.TotalTimeHours, s.LocationCount)
	}
	if len(ds.FailedAddresses) > 0 {
		fmt.Printf("failed addresses: %d\n", len(ds.FailedAddresses))
	}

	return nil
}

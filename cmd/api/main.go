// Package main is the entry point for the ShareIt booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/shareit/internal/config"
	"github.com/pkordes/shareit/internal/domain"
	"github.com/pkordes/shareit/internal/handler"
	"github.com/pkordes/shareit/internal/lib/logger/sl"
	"github.com/pkordes/shareit/internal/metrics"
	"github.com/pkordes/shareit/internal/middleware"
	"github.com/pkordes/shareit/internal/repo"
	"github.com/pkordes/shareit/internal/service"
	"github.com/pkordes/shareit/migrations"
	"github.com/pkordes/shareit/spec"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(".env")

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", sl.Err(err))
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	st, closeStore, err := openStores(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", slog.String("storage", cfg.Storage), sl.Err(err))
		os.Exit(1)
	}
	defer closeStore()

	if cfg.SeedDemo {
		demo, err := repo.SeedDemo(context.Background(), st.users, st.items, gofakeit.New(0), 2, 3)
		if err != nil {
			logger.Error("failed to seed demo data", sl.Err(err))
			os.Exit(1)
		}
		logger.Info("demo data seeded",
			slog.String("owner_id", demo.Owner.ID.String()),
			slog.Any("booker_ids", userIDs(demo.Bookers)),
			slog.Any("item_ids", itemIDs(demo.Items)),
		)
	}

	// --- Services ---------------------------------------------------------
	m := metrics.New()
	bookings := service.NewBookingService(st.bookings, st.items, st.users, domain.SystemClock{}, logger, m)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Metrics → Logger →
	// Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(m.Middleware)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	handler.NewServer(bookings, cfg.DefaultPageSize, logger).Routes(r)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})
	r.Handle("/metrics", m.Handler())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", sl.Err(err))
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// stores is the set of repos the booking service reads and writes.
type stores struct {
	users    repo.UserRepo
	items    repo.ItemRepo
	bookings repo.BookingRepo
}

// openStores builds the backend named by cfg.Storage. The returned func
// releases its resources.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, func(), error) {
	if cfg.Storage == config.StorageMemory {
		m := repo.NewMemoryStore()
		log.Warn("using in-memory storage; data is lost on restart")
		return stores{users: m.Users(), items: m.Items(), bookings: m.Bookings()}, func() {}, nil
	}

	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg.DatabaseURL, log); err != nil {
			return stores{}, nil, err
		}
	}

	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, fmt.Errorf("create database pool: %w", err)
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established")

	return stores{
		users:    repo.NewUserRepo(pool),
		items:    repo.NewItemRepo(pool),
		bookings: repo.NewBookingRepo(pool),
	}, pool.Close, nil
}

// migrate applies every pending embedded migration. goose drives
// database/sql, so it gets its own short-lived connection.
func migrate(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, res := range results {
		log.Info("migration applied",
			slog.Int64("version", res.Source.Version),
			slog.Duration("duration", res.Duration),
		)
	}
	return nil
}

func userIDs(users []domain.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID.String()
	}
	return out
}

func itemIDs(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID.String()
	}
	return out
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/app"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/auth"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/cache"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/clock"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/config"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/storage/postgres"
	transporthttp "github.com/DonMunyoki/CHEKI-EVENTS/internal/transport/http"
	"github.com/DonMunyoki/CHEKI-EVENTS/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DB.URL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()
	if err := rdb.Ping(startupCtx).Err(); err != nil {
		// The catalog cache is best-effort, so a missing Redis only costs
		// cache misses.
		logger.Printf("WARN: redis ping failed, catalog cache degraded: %v", err)
	}

	eventRepo := postgres.NewEventRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	cachedCatalog := cache.NewCatalog(eventRepo, rdb, cfg.Redis.CatalogTTL)
	catalogSvc := app.NewCatalogService(cachedCatalog, clock.NewSystem())
	purchaseSvc := app.NewPurchaseService(ticketRepo, clock.NewSystem())
	ticketSvc := app.NewTicketService(ticketRepo, clock.NewSystem())
	authSvc := auth.NewService(userRepo, clock.NewSystem(), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	handler := transporthttp.NewRouter(transporthttp.Deps{
		Catalog:     catalogSvc,
		Purchases:   purchaseSvc,
		Tickets:     ticketSvc,
		Auth:        authSvc,
		Verifier:    authSvc,
		CORSOrigins: cfg.CORS.AllowedOrigins(),
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.HTTP.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/metric"

	"github.com/ridelink/backend/internal/agreement"
	"github.com/ridelink/backend/internal/config"
	"github.com/ridelink/backend/internal/handler"
	"github.com/ridelink/backend/internal/model/safezone"
	"github.com/ridelink/backend/internal/service/deal"
	"github.com/ridelink/backend/internal/service/messaging"
	"github.com/ridelink/backend/internal/service/negotiation"
	"github.com/ridelink/backend/internal/store"
	"github.com/ridelink/backend/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if _, err := telemetry.InitLogger(cfg.Telemetry.LogDir); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	var meter metric.Meter
	if cfg.Telemetry.Enabled {
		_, m, shutdown, err := telemetry.Init(ctx, cfg.Telemetry.LogDir)
		if err != nil {
			slog.Warn("failed to initialize telemetry, continuing without it", "error", err)
		} else {
			meter = m
			defer shutdown()
			slog.Info("telemetry initialized")
		}
	} else {
		slog.Info("telemetry disabled by configuration")
	}

	listings, err := store.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open listings database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer listings.Close()
	slog.Info("listings database ready", "path", cfg.Database.Path)

	zones := safezone.NewMemoryStore(safezone.Seed())
	messages := messaging.NewService()
	deals := deal.NewService()
	negotiations := negotiation.NewService(agreement.NewMachine(), deals, meter)

	router := handler.NewRouter(listings, zones, messages, deals, negotiations)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("RideLink backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

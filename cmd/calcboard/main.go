package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"calcboard/internal/backup"
	"calcboard/pkg/api"
	"calcboard/pkg/banner"
	"calcboard/pkg/board"
	"calcboard/pkg/config"
	"calcboard/pkg/logger"
	"calcboard/pkg/security"
	"calcboard/pkg/store"
	"calcboard/pkg/telemetry"
)

// build metadata - set via ldflags during build/release
var (
	version = "dev"
	commit  = "none"
)

func main() {
	_ = godotenv.Load(".env")
	flags := config.ParseFlags()

	eff, err := config.LoadEffective(flags)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := eff.Config

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	if err := store.Open(eff.DBPath); err != nil {
		log.Fatalf("failed to open pebble at %s: %v", eff.DBPath, err)
	}
	adapter := store.NewAdapter()
	boardStore := board.New(adapter)

	ctx, cancel := context.WithCancel(context.Background())
	stopBackup, err := backup.Start(ctx, cfg, adapter)
	if err != nil {
		log.Fatalf("failed to start backup scheduler: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigc
		logger.Info("signal_received", "signal", s.String())
		stopBackup()
		cancel()
		if err := store.Close(); err != nil {
			logger.Error("store_close_failed", "error", err)
		}
		os.Exit(0)
	}()

	verStr := version
	if commit != "none" {
		verStr = verStr + " (" + commit + ")"
	}
	banner.Print(eff.Addr, eff.DBPath, eff.Sources, verStr)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", api.Handler(boardStore))

	secCfg := security.SecConfig{
		AllowedOrigins: cfg.Security.CORS.AllowedOrigins,
		RPS:            cfg.Security.RateLimit.RPS,
		Burst:          cfg.Security.RateLimit.Burst,
	}
	wrapped := telemetry.Middleware(security.Middleware(secCfg)(mux))

	logger.Info("server_listening", "addr", eff.Addr)
	if err := http.ListenAndServe(eff.Addr, wrapped); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"thirdcoast.systems/xclip/cmd/web/internal/web"
	"thirdcoast.systems/xclip/internal/config"
	"thirdcoast.systems/xclip/internal/downloads"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	slog.Info("Starting web service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(conf.DownloadDir, 0o755); err != nil {
		slog.Error("failed to create download directory", "dir", conf.DownloadDir, "error", err)
		os.Exit(1)
	}

	// Startup sweep reclaims files abandoned by earlier runs; with a
	// configured interval it keeps running in the background.
	go downloads.RunSweeper(ctx, conf.DownloadDir, conf.RetentionMaxAge(), conf.SweepInterval())

	e, err := web.NewWebserver(conf)
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

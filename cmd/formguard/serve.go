package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the form pipeline with duplicate prevention",
		Long: `Serve the form pipeline. Configuration comes from environment variables
(and an optional .env file): LISTEN_ADDR, FORMS_FILE, SESSION_BACKEND,
FINGERPRINT_HASH, STATS_ENABLED, LOG_LEVEL and others.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg config) error {
	if parent == nil {
		parent = context.Background()
	}
	log := newLogger(cfg, os.Stderr)

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", cfg.listenAddr, "forms", a.registry.IDs())
	log.Info("session", "backend", cfg.sessionBackend, "cookie", cfg.sessionCookie, "ttl", cfg.sessionTTL)
	log.Info("fingerprint", "hash", cfg.fingerprintHash, "ignore", cfg.fingerprintIgnore)
	log.Info("stats", "enabled", cfg.statsEnabled, "redisAddr", cfg.statsRedisAddr, "bucket", cfg.statsBucket)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

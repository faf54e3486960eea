package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"middleware-formguard/forms"
	"middleware-formguard/middleware/dupguard"
	"middleware-formguard/middleware/dupguard/application"
	"middleware-formguard/middleware/dupguard/infra"
)

func main() {
	// Exemplo: pipeline de forms + guard direto no seu webserver, tudo em memória
	sessions := infra.NewMemorySessionStore()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	sessions.StartJanitor(ctx)

	registry := forms.NewRegistry(forms.Form{
		ID:    1,
		Title: "Newsletter",
		Fields: []forms.Field{
			{ID: "1", Label: "Email", Type: "email", Required: true},
		},
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	pipeline := forms.NewPipeline(registry, forms.NewMemoryEntryStore(), logger)
	pipeline.Use(dupguard.Hook(application.Guard{Log: logger}))

	script, err := dupguard.DebounceHandler(dupguard.DebounceOptions{})
	if err != nil {
		log.Fatalf("debounce script: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /formguard.js", script)
	mux.Handle("/forms/", forms.Handler(pipeline, forms.HandlerOptions{ScriptURL: "/formguard.js"}))

	h := dupguard.SessionMiddleware(dupguard.SessionOptions{Store: sessions})(mux)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("example server listening on %s (open /forms/1)", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

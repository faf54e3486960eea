package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"middleware-formguard/forms"
	"middleware-formguard/middleware/dupguard"
	"middleware-formguard/middleware/dupguard/application"
	"middleware-formguard/middleware/dupguard/domain"
	"middleware-formguard/middleware/dupguard/infra"

	"github.com/redis/go-redis/v9"
)

const scriptPath = "/static/formguard.js"

// demoForm é usado quando FORMS_FILE não está definido.
var demoForm = forms.Form{
	ID:    1,
	Title: "Contact",
	Fields: []forms.Field{
		{ID: "1", Label: "Name", Type: "text", Required: true},
		{ID: "2", Label: "Email", Type: "email", Required: true},
		{ID: "3", Label: "Message", Type: "text"},
	},
}

type app struct {
	handler  http.Handler
	registry *forms.Registry
	closers  []func() error
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// buildApp monta registry, stores, guard, pipeline e rotas a partir da config.
// ctx controla as goroutines de fundo (janitor, watcher).
func buildApp(ctx context.Context, cfg config, log *slog.Logger) (*app, error) {
	a := &app{}

	var err error
	if cfg.formsFile != "" {
		a.registry, err = forms.LoadRegistry(cfg.formsFile)
		if err != nil {
			return nil, err
		}
		if cfg.formsWatch {
			go func() {
				if err := forms.WatchRegistry(ctx, a.registry, 0, log); err != nil {
					log.Error("forms watcher stopped", "err", err)
				}
			}()
		}
	} else {
		a.registry = forms.NewRegistry(demoForm)
	}

	var entries forms.EntryStore
	if cfg.entriesDSN != "" {
		st, err := forms.NewSQLiteEntryStore(cfg.entriesDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, st.Close)
		entries = st
	} else {
		entries = forms.NewMemoryEntryStore()
	}

	var sessions domain.SessionStore
	switch cfg.sessionBackend {
	case "redis":
		rdb, err := connectRedis(ctx, cfg.sessionRedisAddr, cfg.sessionRedisPassword, cfg.sessionRedisDB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("session redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		sessions = infra.NewRedisSessionStore(rdb,
			infra.WithSessionPrefix(cfg.sessionRedisPrefix),
			infra.WithSessionTTL(cfg.sessionTTL),
		)
	default:
		mem := infra.NewMemorySessionStore(infra.WithSessionIdleTTL(cfg.sessionTTL))
		mem.StartJanitor(ctx)
		sessions = mem
	}

	var (
		stats    domain.StatsStore
		memStats *infra.MemoryStatsStore
	)
	if cfg.statsEnabled {
		if cfg.statsRedisAddr != "" {
			rdb, err := connectRedis(ctx, cfg.statsRedisAddr, cfg.statsRedisPassword, cfg.statsRedisDB)
			if err != nil {
				a.Close()
				return nil, fmt.Errorf("stats redis: %w", err)
			}
			a.closers = append(a.closers, rdb.Close)
			stats = infra.NewRedisStatsStore(rdb,
				infra.WithStatsPrefix(cfg.statsPrefix),
				infra.WithStatsTTL(cfg.statsTTL),
				infra.WithStatsBucket(cfg.statsBucket),
			)
		} else {
			memStats = infra.NewMemoryStatsStore()
			stats = memStats
		}
	}

	var notifier domain.Notifier
	if cfg.webhookURL != "" {
		wh := &infra.WebhookNotifier{URL: cfg.webhookURL, Log: log}
		a.closers = append(a.closers, func() error { wh.Wait(); return nil })
		notifier = wh
	}

	hash, err := application.ParseHash(cfg.fingerprintHash)
	if err != nil {
		a.Close()
		return nil, err
	}

	guard := application.Guard{
		Fingerprinter: application.Fingerprinter{Hash: hash, Ignore: cfg.fingerprintIgnore},
		Notifier:      notifier,
		Stats:         stats,
		Log:           log,
	}

	pipeline := forms.NewPipeline(a.registry, entries, log)
	pipeline.Use(dupguard.Hook(guard))

	mux := http.NewServeMux()
	formOpts := forms.HandlerOptions{Log: log}
	if cfg.loadScript {
		script, err := dupguard.DebounceHandler(dupguard.DebounceOptions{})
		if err != nil {
			a.Close()
			return nil, err
		}
		mux.Handle("GET "+scriptPath, script)
		formOpts.ScriptURL = scriptPath
	}
	mux.Handle("/forms/", forms.Handler(pipeline, formOpts))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if memStats != nil {
		mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"total":  memStats.Total(),
				"byForm": memStats.ByForm(),
			})
		})
	}

	a.handler = dupguard.SessionMiddleware(dupguard.SessionOptions{
		Store:        sessions,
		CookieName:   cfg.sessionCookie,
		Header:       cfg.sessionHeader,
		CookieMaxAge: cfg.sessionTTL,
		Secure:       cfg.sessionSecure,
	})(mux)
	return a, nil
}

func connectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

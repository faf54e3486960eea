package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type config struct {
	listenAddr string
	formsFile  string
	formsWatch bool
	entriesDSN string

	sessionBackend       string
	sessionCookie        string
	sessionHeader        string
	sessionSecure        bool
	sessionTTL           time.Duration
	sessionRedisAddr     string
	sessionRedisPassword string
	sessionRedisDB       int
	sessionRedisPrefix   string

	fingerprintHash   string
	fingerprintIgnore []string

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string

	logLevel            string
	logFormat           string
	logDuplicatesPerSec float64
	logDuplicatesBurst  int

	loadScript bool
	webhookURL string
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.formsFile = os.Getenv("FORMS_FILE")
	cfg.formsWatch = getenvBoolDefault("FORMS_WATCH", false)
	cfg.entriesDSN = os.Getenv("ENTRIES_DSN")

	cfg.sessionBackend = strings.ToLower(getenvDefault("SESSION_BACKEND", "memory"))
	cfg.sessionCookie = getenvDefault("SESSION_COOKIE", "formguard_session")
	cfg.sessionHeader = os.Getenv("SESSION_HEADER")
	cfg.sessionSecure = getenvBoolDefault("SESSION_SECURE", false)
	cfg.sessionTTL = getenvDurationDefault("SESSION_TTL", 30*time.Minute)
	cfg.sessionRedisAddr = os.Getenv("SESSION_REDIS_ADDR")
	cfg.sessionRedisPassword = os.Getenv("SESSION_REDIS_PASSWORD")
	cfg.sessionRedisDB = getenvIntDefault("SESSION_REDIS_DB", 0)
	cfg.sessionRedisPrefix = getenvDefault("SESSION_REDIS_PREFIX", "formguard:session")

	cfg.fingerprintHash = getenvDefault("FINGERPRINT_HASH", "md5")
	cfg.fingerprintIgnore = getenvList("FINGERPRINT_IGNORE")

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", false)
	cfg.statsRedisAddr = os.Getenv("STATS_REDIS_ADDR")
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "formguard:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("STATS_BUCKET", "minute")

	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.logFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "text"))
	cfg.logDuplicatesPerSec = getenvFloatDefault("LOG_DUPLICATES_PER_SEC", 5)
	cfg.logDuplicatesBurst = getenvIntDefault("LOG_DUPLICATES_BURST", 10)

	cfg.loadScript = getenvBoolDefault("FORMGUARD_LOAD_SCRIPT", true)
	cfg.webhookURL = os.Getenv("DUPLICATE_WEBHOOK_URL")

	switch cfg.sessionBackend {
	case "memory":
	case "redis":
		if strings.TrimSpace(cfg.sessionRedisAddr) == "" {
			return config{}, errors.New("SESSION_REDIS_ADDR is required when SESSION_BACKEND=redis")
		}
	default:
		return config{}, fmt.Errorf("SESSION_BACKEND must be memory or redis, got %q", cfg.sessionBackend)
	}
	if cfg.formsWatch && cfg.formsFile == "" {
		return config{}, errors.New("FORMS_FILE is required when FORMS_WATCH=true")
	}
	if cfg.logFormat != "text" && cfg.logFormat != "json" {
		return config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.logFormat)
	}
	if cfg.sessionTTL < 0 {
		return config{}, errors.New("SESSION_TTL must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// getenvList: valores separados por vírgula, vazios descartados.
func getenvList(k string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

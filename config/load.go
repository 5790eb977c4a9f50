package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Load reads the server configuration. DATABASE_URL is only required by
// commands that touch the database, so callers opt in with requireDB.
func Load(requireDB bool) App {
	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		JWTTTLHours: getint("JWT_TTL_HOURS", 24),
		Env:         getenv("APP_ENV", "dev"),

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin"),

		LoanMaxDays: getint("LOAN_MAX_DAYS", 15),

		DBMaxConns:     int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:     int32(getint("DB_MIN_CONNS", 0)),
		DBConnLifetime: getduration("DB_CONN_LIFETIME", time.Hour),

		ReadTimeout:  getduration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getduration("HTTP_WRITE_TIMEOUT", 15*time.Second),
	}
	if requireDB {
		cfg.DatabaseURL = must("DATABASE_URL")
	} else {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.IsProd() {
		cfg.JWTSecret = must("JWT_SECRET")
		cfg.AdminPassword = must("ADMIN_PASSWORD")
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid int env, using default", "key", k, "value", v, "default", def)
		return def
	}
	return n
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration env, using default", "key", k, "value", v, "default", def)
		return def
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}

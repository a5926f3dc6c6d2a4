package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the movie browser.
type Config struct {
	Addr      string
	Port      string
	LogLevel  slog.Level
	Catalog   CatalogConfig
	Watchlist WatchlistConfig
	DB        DBConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	TMDB      TMDBConfig
}

// CatalogConfig locates the static movie document.
type CatalogConfig struct {
	Source         string
	FallbackPoster string
}

// Watchlist backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// WatchlistConfig selects where the watchlist is persisted.
type WatchlistConfig struct {
	Backend string
	Key     string
	Dir     string
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// SQLiteConfig holds the SQLite database path.
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TMDBConfig holds TMDB API configuration. An empty APIKey disables enrichment.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
	RatePerSec   float64
	Concurrency  int
	CacheTTL     time.Duration
}

// Enabled reports whether poster enrichment should run.
func (t TMDBConfig) Enabled() bool {
	return strings.TrimSpace(t.APIKey) != ""
}

// Load reads configuration from environment variables, after loading the
// given .env files (missing files are ignored).
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	concurrency, _ := strconv.Atoi(getEnv("TMDB_CONCURRENCY", "8"))
	rate, _ := strconv.ParseFloat(getEnv("TMDB_RATE_PER_SEC", "10"), 64)

	timeout, err := time.ParseDuration(getEnv("TMDB_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TMDB_TIMEOUT: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("TMDB_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TMDB_CACHE_TTL: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Addr:     getEnv("SERVER_ADDR", "127.0.0.1"),
		Port:     getEnv("SERVER_PORT", "8080"),
		LogLevel: level,
		Catalog: CatalogConfig{
			Source:         getEnv("CATALOG_SOURCE", "movies.json"),
			FallbackPoster: getEnv("FALLBACK_POSTER", "poster-fallback.png"),
		},
		Watchlist: WatchlistConfig{
			Backend: strings.ToLower(getEnv("WATCHLIST_BACKEND", BackendFile)),
			Key:     getEnv("WATCHLIST_KEY", "movieWatchlist"),
			Dir:     getEnv("WATCHLIST_DIR", "data"),
		},
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "movie_browser"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "data/watchlist.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w342"),
			Timeout:      timeout,
			RatePerSec:   rate,
			Concurrency:  concurrency,
			CacheTTL:     cacheTTL,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Watchlist.Backend {
	case BackendFile, BackendSQLite, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown WATCHLIST_BACKEND %q", c.Watchlist.Backend)
	}
	if c.TMDB.Concurrency < 1 {
		c.TMDB.Concurrency = 1
	}
	if c.TMDB.RatePerSec <= 0 {
		c.TMDB.RatePerSec = 10
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Storage  string // "file" | "redis" | "memory"
	DataDir  string // bucket directory for the file backend
	SeedFile string // optional YAML seed file, empty = disabled
	PageSize int    // resources per page (default: 30)

	LocalBackupDir     string        // directory for local-mode backup files, empty = local mode disabled
	AutoBackupInterval time.Duration // interval for scheduled remote backups, 0 = disabled

	// Redis (only used when Storage == "redis")
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	// Best effort: a missing .env file is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("RESNAV_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("RESNAV_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("RESNAV_LOG_LEVEL", "info"),
		PrettyLog: mustBool("RESNAV_PRETTY_LOG", true),

		// Storage
		Storage:  getenv("RESNAV_STORAGE", "file"),
		DataDir:  getenv("RESNAV_DATA_DIR", "./data"),
		SeedFile: getenv("RESNAV_SEED_FILE", ""), // Optional, empty = seeding disabled
		PageSize: getenvInt("RESNAV_PAGE_SIZE", 30),

		// Backup
		LocalBackupDir:     getenv("RESNAV_LOCAL_BACKUP_DIR", "./backups"),
		AutoBackupInterval: mustDuration("RESNAV_AUTO_BACKUP_INTERVAL", 0),

		// Redis settings
		RedisAddr:           getenv("RESNAV_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("RESNAV_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("RESNAV_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("RESNAV_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	switch cfg.Storage {
	case "file", "redis", "memory":
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid RESNAV_STORAGE value: %s (want file, redis or memory)", cfg.Storage))
	}

	if cfg.PageSize <= 0 {
		panic(fmt.Sprintf("❌ FATAL: RESNAV_PAGE_SIZE must be > 0, got %d", cfg.PageSize))
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

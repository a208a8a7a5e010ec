package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Local    LocalConfig
	Trending TrendingConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	// SnapshotKey encrypts the device-local cart snapshot at rest.
	// Must be 16, 24 or 32 bytes long (AES-128/192/256).
	SnapshotKey string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type LocalConfig struct {
	// StateDir holds the device-local document (visitor id + guest cart).
	StateDir string
}

type TrendingConfig struct {
	PoolSize int
	Limit    int
	CacheTTL time.Duration
	// SearchDebounce is handed to the rendering layer so the suggestion
	// box and the engine agree on the same quiet period.
	SearchDebounce time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Kneex Client Engine"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			SnapshotKey: getEnv("APP_SNAPSHOT_KEY", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8090"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "kneex_store"),
			SSLMode:  getEnv("DB_SSL_MODE", "require"),
		},
		Redis: RedisConfig{
			Enabled:       getEnv("REDIS_HOST", "") != "",
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
		},
		Local: LocalConfig{
			StateDir: getEnv("LOCAL_STATE_DIR", defaultStateDir()),
		},
		Trending: TrendingConfig{
			PoolSize:       getEnvInt("TRENDING_POOL_SIZE", 20),
			Limit:          getEnvInt("TRENDING_LIMIT", 10),
			CacheTTL:       getEnvDuration("TRENDING_CACHE_TTL", 60*time.Second),
			SearchDebounce: getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		},
	}

	if cfg.Redis.Enabled {
		redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
		if err != nil {
			return nil, errors.New("invalid redis database")
		}
		cfg.Redis.RedisDB = redisDB
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if keyLen := len(cfg.App.SnapshotKey); keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, errors.New("snapshot key must be 16, 24 or 32 bytes")
	}

	return cfg, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "kneex")
	}
	return ".kneex"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return defaultVal
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	Environment        string
	LogLevel           string
	DatabaseURL        string
	MigrationsDir      string
	RunMigrations      bool
	RunSeed            bool
	JWTSecret          string
	TokenTTL           time.Duration
	SeedAdminEmail     string
	SeedAdminPassword  string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	PlanCacheTTL       time.Duration
	MaxBodyBytes       int64
	RateLimitPerMinute int
	TrustProxy         bool
	MetricsEnabled     bool
	MenuConfigPath     string
	CheckinWindow      time.Duration
	Currency           string
}

// Load reads an optional .env file and then the process environment, which wins.
func Load() Config {
	if path := getEnv("ENV_FILE", ".env"); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "config: ignoring %s: %v\n", path, err)
		}
	}
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:            getEnvBool("RUN_SEED", true),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 12*time.Hour),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", "admin@gym.local"),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		PlanCacheTTL:       getEnvDuration("PLAN_CACHE_TTL", 5*time.Minute),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		TrustProxy:         getEnvBool("TRUST_PROXY", false),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		MenuConfigPath:     getEnv("MENU_CONFIG_PATH", ""),
		CheckinWindow:      getEnvDuration("CHECKIN_WINDOW", time.Minute),
		Currency:           getEnv("CURRENCY", "USD"),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if c.IsProduction() {
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == "dev-secret-change-me" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.CheckinWindow < 10*time.Second {
		return fmt.Errorf("CHECKIN_WINDOW must be at least 10s")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be a three-letter code")
	}
	return nil
}

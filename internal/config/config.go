package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	TimeZone  string
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Cache     CacheConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Admin     AdminConfig
	Reset     ResetConfig

	location *time.Location
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql | postgres | sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file or DSN
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds auth cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// CacheConfig selects the program listing cache
type CacheConfig struct {
	Driver        string // memory | redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// LogConfig holds zerolog settings
type LogConfig struct {
	Level  string
	Format string // json | console
}

// SchedulerConfig holds cron settings
type SchedulerConfig struct {
	ProgramSweepSpec string
}

// AdminConfig holds admin bootstrap settings
type AdminConfig struct {
	CreateCode string
	Email      string
	Password   string
	Name       string
}

// ResetConfig holds password reset settings
type ResetConfig struct {
	URLBase    string
	WebhookURL string
	TokenTTL   time.Duration
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional; production sets real environment variables
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		TimeZone: getEnv("APP_TIMEZONE", "UTC"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		Cache: CacheConfig{
			Driver:        getEnv("CACHE_DRIVER", "memory"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			TTL:           cacheTTL,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", defaultLogFormat(appMode)),
		},
		Scheduler: SchedulerConfig{
			ProgramSweepSpec: getEnv("PROGRAM_SWEEP_SPEC", "@every 1m"),
		},
		Admin: AdminConfig{
			CreateCode: getEnv("ADMIN_CREATE_CODE", ""),
			Email:      getEnv("ADMIN_EMAIL", ""),
			Password:   getEnv("ADMIN_PASSWORD", ""),
			Name:       getEnv("ADMIN_NAME", "Administrator"),
		},
		Reset: ResetConfig{
			URLBase:    getEnv("RESET_URL_BASE", "http://localhost:3001"),
			WebhookURL: getEnv("RESET_WEBHOOK_URL", ""),
			TokenTTL:   time.Hour,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks cross-field settings and resolves the clinic time zone
func (c *Config) Validate() error {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE '%s': %w", c.TimeZone, err)
	}
	c.location = loc

	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or sqlite)", c.Database.Driver)
	}

	if c.IsProd() && (c.JWT.Secret == defaultJWTSecret || c.JWT.RefreshSecret == defaultRefreshSecret) {
		return fmt.Errorf("JWT secrets must be set in prod mode")
	}
	return nil
}

// Location returns the clinic time zone used for calendar windows
func (c *Config) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	if loc, err := time.LoadLocation(c.TimeZone); err == nil && c.TimeZone != "" {
		return loc
	}
	return time.UTC
}

const (
	defaultJWTSecret     = "default_secret"
	defaultRefreshSecret = "default_refresh_secret"
)

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)
	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))

	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "carepath"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
		Path:     getEnv(prefix+"DB_PATH", "carepath.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", defaultJWTSecret),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", defaultRefreshSecret),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func defaultLogFormat(mode string) string {
	if mode == "dev" {
		return "console"
	}
	return "json"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3001"
	}
	return origins
}

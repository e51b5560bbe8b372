package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	CORS     CORSConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type AuthConfig struct {
	JWTSecret          string
	JWTIssuer          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
}

type AIConfig struct {
	Provider           string
	APIKey             string
	BaseURL            string
	Model              string
	Timeout            time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	MaxOutputTokens    int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AdminConfig struct {
	Emails []string
}

// Значения по умолчанию для провайдеров AI.
var aiDefaults = map[string]struct {
	baseURL string
	model   string
	keyEnv  string
}{
	"groq":       {baseURL: "https://api.groq.com/openai/v1", model: "llama-3.3-70b-versatile", keyEnv: "GROQ_API_KEY"},
	"gemini":     {baseURL: "https://generativelanguage.googleapis.com/v1beta", model: "gemini-1.5-flash", keyEnv: "GEMINI_API_KEY"},
	"gemini-sdk": {model: "gemini-1.5-flash", keyEnv: "GEMINI_API_KEY"},
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	var err error
	if cfg.Server, err = loadServer(); err != nil {
		return cfg, err
	}
	if cfg.Database, err = loadDatabase(); err != nil {
		return cfg, err
	}
	if cfg.Auth, err = loadAuth(); err != nil {
		return cfg, err
	}
	if cfg.AI, err = loadAI(); err != nil {
		return cfg, err
	}

	cfg.CORS = CORSConfig{AllowedOrigins: parseListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})}
	cfg.Admin = AdminConfig{Emails: parseCSVEnv("ADMIN_EMAILS")}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadServer() (ServerConfig, error) {
	port, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return ServerConfig{}, err
	}
	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}
	// генерация маршрута занимает десятки секунд
	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 90*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}
	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadDatabase() (DatabaseConfig, error) {
	port, err := parseIntEnv("DB_PORT", 5432)
	if err != nil {
		return DatabaseConfig{}, err
	}
	maxOpenConns, err := parseIntEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return DatabaseConfig{}, err
	}
	maxIdleConns, err := parseIntEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return DatabaseConfig{}, err
	}
	connMaxIdleTime, err := parseDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return DatabaseConfig{}, err
	}
	connMaxLifetime, err := parseDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return DatabaseConfig{}, err
	}
	autoMigrate, err := parseBoolEnv("DB_AUTO_MIGRATE", true)
	if err != nil {
		return DatabaseConfig{}, err
	}

	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            port,
		User:            getEnv("DB_USER", "travel"),
		Password:        getEnv("DB_PASSWORD", "travel"),
		Name:            getEnv("DB_NAME", "travel_planner"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxIdleTime: connMaxIdleTime,
		ConnMaxLifetime: connMaxLifetime,
		AutoMigrate:     autoMigrate,
	}, nil
}

func loadAuth() (AuthConfig, error) {
	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return AuthConfig{}, err
	}
	refreshTTL, err := parseDurationEnv("JWT_REFRESH_TTL", 7*24*time.Hour)
	if err != nil {
		return AuthConfig{}, err
	}
	perMinute, err := parseIntEnv("AUTH_RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return AuthConfig{}, err
	}
	burst, err := parseIntEnv("AUTH_RATE_LIMIT_BURST", 10)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", "travel-planner"),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		RateLimitPerMinute: perMinute,
		RateLimitBurst:     burst,
	}, nil
}

func loadAI() (AIConfig, error) {
	timeout, err := parseDurationEnv("AI_TIMEOUT", 60*time.Second)
	if err != nil {
		return AIConfig{}, err
	}
	perMinute, err := parseIntEnv("AI_RATE_LIMIT_PER_MINUTE", 10)
	if err != nil {
		return AIConfig{}, err
	}
	burst, err := parseIntEnv("AI_RATE_LIMIT_BURST", 3)
	if err != nil {
		return AIConfig{}, err
	}
	maxOutputTokens, err := parseIntEnv("AI_MAX_OUTPUT_TOKENS", 4000)
	if err != nil {
		return AIConfig{}, err
	}

	provider := strings.ToLower(getEnv("AI_PROVIDER", "groq"))
	defaults, ok := aiDefaults[provider]
	if !ok {
		return AIConfig{}, fmt.Errorf("AI_PROVIDER must be one of groq, gemini, gemini-sdk")
	}

	apiKey := getEnv("AI_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv(defaults.keyEnv, "")
	}

	return AIConfig{
		Provider:           provider,
		APIKey:             apiKey,
		BaseURL:            getEnv("AI_BASE_URL", defaults.baseURL),
		Model:              getEnv("AI_MODEL", defaults.model),
		Timeout:            timeout,
		RateLimitPerMinute: perMinute,
		RateLimitBurst:     burst,
		MaxOutputTokens:    maxOutputTokens,
	}, nil
}

// DSN возвращает строку подключения к базе данных.
func (c DatabaseConfig) DSN() string {
	return c.url("postgres")
}

// MigrateURL возвращает адрес для golang-migrate с драйвером pgx/v5.
func (c DatabaseConfig) MigrateURL() string {
	return c.url("pgx5")
}

func (c DatabaseConfig) url(scheme string) string {
	dsn := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	return dsn.String() + "?" + query.Encode()
}

func (c Config) validate() error {
	switch {
	case c.Server.Port <= 0:
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	case c.Database.Host == "":
		return fmt.Errorf("DB_HOST is required")
	case c.Database.User == "":
		return fmt.Errorf("DB_USER is required")
	case c.Database.Name == "":
		return fmt.Errorf("DB_NAME is required")
	case c.Database.MaxIdleConns > c.Database.MaxOpenConns:
		return fmt.Errorf("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("JWT_SECRET is required")
	case c.Auth.AccessTokenTTL >= c.Auth.RefreshTokenTTL:
		return fmt.Errorf("JWT_ACCESS_TTL must be shorter than JWT_REFRESH_TTL")
	case c.AI.Provider != "gemini-sdk" && c.AI.BaseURL == "":
		return fmt.Errorf("AI_BASE_URL is required for provider %s", c.AI.Provider)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return parsed, nil
}

// parseCSVEnv разбирает список в нижнем регистре, например email-адреса.
func parseCSVEnv(key string) []string {
	values := parseListEnv(key, nil)
	for i, value := range values {
		values[i] = strings.ToLower(value)
	}
	return values
}

func parseListEnv(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

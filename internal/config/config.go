package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	HTTPPort         string
	Store            string
	PostgresDSN      string
	DBDriver         string
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnMaxIdle    time.Duration
	DBConnMaxLife    time.Duration
	JWTSecret        string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	RecoveryTokenTTL time.Duration
	InviteTokenTTL   time.Duration
	RedisURL         string
	AMQPURL          string
	AMQPExchange     string
	AMQPQueue        string
	PublicBaseURL    string
	RedirectOrigins  []string
	ChatLinkBase     string
	PhoneCountryCode string
	RequestTimeout   time.Duration
	LogLevel         string
	Mail             MailConfig
}

type MailConfig struct {
	From         string
	ResendAPIKey string
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
}

// source resolves a key from the process environment first and the optional
// YAML overlay second.
type source struct {
	overlay map[string]string
}

// Load reads .env (when present), the YAML file named by CONFIG_FILE (when
// set) and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	src := source{overlay: map[string]string{}}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		overlay, err := readOverlay(path)
		if err != nil {
			return nil, err
		}
		src.overlay = overlay
	}

	cfg := &Config{
		HTTPPort:         src.getEnv("HTTP_PORT", "8080"),
		Store:            strings.ToLower(src.getEnv("STORE", StorePostgres)),
		PostgresDSN:      src.getEnv("DATABASE_URL", ""),
		DBDriver:         strings.ToLower(src.getEnv("DB_DRIVER", "pgx")),
		DBMaxOpenConns:   src.getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   src.getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:    src.getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:    src.getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		JWTSecret:        src.getEnv("JWT_SECRET", ""),
		AccessTokenTTL:   src.getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  src.getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		RecoveryTokenTTL: src.getDuration("RECOVERY_TOKEN_TTL", time.Hour),
		InviteTokenTTL:   src.getDuration("INVITE_TOKEN_TTL", 7*24*time.Hour),
		RedisURL:         src.getEnv("REDIS_URL", ""),
		AMQPURL:          src.getEnv("AMQP_URL", ""),
		AMQPExchange:     src.getEnv("AMQP_EXCHANGE", "gohire.events"),
		AMQPQueue:        src.getEnv("AMQP_QUEUE", "gohire.notifications"),
		PublicBaseURL:    strings.TrimRight(src.getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		RedirectOrigins:  src.getList("ALLOWED_REDIRECT_ORIGINS"),
		ChatLinkBase:     src.getEnv("CHAT_LINK_BASE", "https://wa.me/"),
		PhoneCountryCode: src.getEnv("DEFAULT_PHONE_COUNTRY", "55"),
		RequestTimeout:   src.getDuration("REQUEST_TIMEOUT", 10*time.Second),
		LogLevel:         src.getEnv("LOG_LEVEL", "info"),
		Mail: MailConfig{
			From:         src.getEnv("MAIL_FROM", "GO! HIRE <no-reply@gohire.app>"),
			ResendAPIKey: src.getEnv("RESEND_API_KEY", ""),
			SMTPEnabled:  src.getBool("SMTP_ENABLED", false),
			SMTPHost:     src.getEnv("SMTP_HOST", ""),
			SMTPPort:     src.getEnv("SMTP_PORT", "587"),
			SMTPUser:     src.getEnv("SMTP_USER", ""),
			SMTPPass:     src.getEnv("SMTP_PASS", ""),
		},
	}
	if cfg.DBDriver == "pq" || cfg.DBDriver == "postgresql" {
		cfg.DBDriver = "postgres"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return fmt.Errorf("STORE must be %s or %s", StorePostgres, StoreMemory)
	}
	missing := make([]string, 0, 2)
	if c.Store == StorePostgres && c.PostgresDSN == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 || c.RecoveryTokenTTL <= 0 {
		return fmt.Errorf("token ttl values must be positive")
	}
	return nil
}

func readOverlay(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	overlay := make(map[string]string, len(values))
	for key, value := range values {
		overlay[strings.ToUpper(strings.TrimSpace(key))] = fmt.Sprint(value)
	}
	return overlay, nil
}

func (s source) lookup(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	if value, ok := s.overlay[key]; ok {
		return strings.TrimSpace(value), true
	}
	return "", false
}

func (s source) getEnv(key, fallback string) string {
	if value, ok := s.lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func (s source) getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := s.lookup(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func (s source) getInt(key string, fallback int) int {
	if value, ok := s.lookup(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func (s source) getBool(key string, fallback bool) bool {
	value, ok := s.lookup(key)
	if !ok || value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

// getList splits a comma separated value, dropping empty entries.
func (s source) getList(key string) []string {
	value, ok := s.lookup(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimRight(strings.TrimSpace(item), "/"); item != "" {
			out = append(out, item)
		}
	}
	return out
}

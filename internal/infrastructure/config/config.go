package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Backend BackendConfig
	Session SessionConfig
	Drafts  DraftsConfig
	CORS    CORSConfig
	Audit   AuditConfig
	DevAPI  DevAPIConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=waosongs"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// BackendConfig locates the order backend REST API.
type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8081/api"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=15s"`
}

// SessionConfig controls visitor sessions and the cookies mirroring them.
type SessionConfig struct {
	CredentialTTL      time.Duration `env:"CREDENTIAL_TTL,        default=24h"`
	SecureCookies      bool          `env:"SECURE_COOKIES,        default=false"`
	VisitorCacheSize   int           `env:"VISITOR_CACHE_SIZE,    default=10000"`
	VisitorLifetime    time.Duration `env:"VISITOR_LIFETIME,      default=30m"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE, default=10"`
	LoginBurst         int           `env:"LOGIN_BURST,           default=5"`
}

// DraftsConfig controls the draft snapshot kept across login.
type DraftsConfig struct {
	TTL time.Duration `env:"DRAFT_TTL, default=168h"`
	// AutoAdvance moves the wizard as far as the resumed draft allows.
	AutoAdvance bool `env:"RESUME_AUTO_ADVANCE, default=false"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// DevAPIConfig configures the development order backend.
type DevAPIConfig struct {
	Port      string        `env:"DEVAPI_PORT, default=8081"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=24h"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the environment using go-envconfig.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &cfg, nil
}

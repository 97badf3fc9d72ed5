package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Assertion mechanisms. Exactly one is active per deployment; the resolver
// never auto-detects.
const (
	AuthModeBearer = "bearer"
	AuthModeCookie = "cookie"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AuthMode selects the identity mechanism: "bearer" (signed JWT in the
	// Authorization header) or "cookie" (Redis session behind an http-only
	// cookie).
	AuthMode   string        `env:"AUTH_MODE,   default=bearer"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=1h"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	BcryptCost     int    `env:"BCRYPT_COST,      default=10"`
	MinUsernameLen int    `env:"MIN_USERNAME_LEN, default=3"`
	MinPasswordLen int    `env:"MIN_PASSWORD_LEN, default=4"`
	AdminPassword  string `env:"ADMIN_PASSWORD,   default=admin"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=1m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=linkboard"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Validate rejects configurations that cannot produce a working deployment.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeBearer:
		if c.JWTSecret == "" {
			return fmt.Errorf("config: JWT_SECRET is required when AUTH_MODE=bearer")
		}
	case AuthModeCookie:
	default:
		return fmt.Errorf("config: unknown AUTH_MODE %q", c.AuthMode)
	}
	return nil
}

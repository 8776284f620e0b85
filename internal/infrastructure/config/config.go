package config

import (
	"context"
	"errors"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token TokenConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// TokenConfig is the signing configuration. It is loaded once at startup
// and treated as read-only for the process lifetime.
type TokenConfig struct {
	Secret        string `env:"JWT_SECRET"`
	Issuer        string `env:"JWT_ISSUER,           default=auth-api"`
	Audience      string `env:"JWT_AUDIENCE,         default=auth-api-clients"`
	ExpireMinutes int    `env:"TOKEN_EXPIRE_MINUTES, default=60"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI,  default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,   default=auth_api"`
	// SeedRoles is the deployment-configured role set seeded at startup.
	SeedRoles []string `env:"SEED_ROLES, default=Admin,Customer,Moderator"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// An empty signing secret is a misconfiguration callers must treat as fatal.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if cfg.Token.Secret == "" {
		return nil, errors.New("config: JWT_SECRET must not be empty")
	}
	if cfg.Token.ExpireMinutes <= 0 {
		return nil, errors.New("config: TOKEN_EXPIRE_MINUTES must be positive")
	}
	return &cfg, nil
}

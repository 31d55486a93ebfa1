// Package config loads the service configuration from the environment
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

// Session stores
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Environments
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// Config is the service configuration
type Config struct {
	Port        int    `env:"PORT" envDefault:"50051"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	SessionStore    string   `env:"SESSION_STORE" envDefault:"memory"`
	RedisAddrs      []string `env:"REDIS_ADDRS" envDefault:"localhost:6379" envSeparator:","`
	RedisMasterName string   `env:"REDIS_MASTER_NAME"`

	TablesDir       string `env:"TABLES_DIR"`
	TablesDB        string `env:"TABLES_DB"`
	TransitionsFile string `env:"TRANSITIONS_FILE"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	HistoryTTL time.Duration `env:"HISTORY_TTL" envDefault:"15m"`
	MaxHistory int           `env:"HISTORY_MAX_ROLLS" envDefault:"50"`

	DiceMaxCount int `env:"DICE_MAX_COUNT" envDefault:"100"`
	DiceMaxSides int `env:"DICE_MAX_SIDES" envDefault:"100000"`
	DiceMaxTotal int `env:"DICE_MAX_TOTAL" envDefault:"200"`

	// RNGSeed makes every draw reproducible when non-zero
	RNGSeed int64 `env:"RNG_SEED"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("PORT", c.Port, 1, 65535, vb)
	errors.ValidateEnum("ENVIRONMENT", c.Environment, []string{EnvironmentDevelopment, EnvironmentProduction}, vb)
	errors.ValidateEnum("LOG_LEVEL", c.LogLevel, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("SESSION_STORE", c.SessionStore, []string{SessionStoreMemory, SessionStoreRedis}, vb)

	if c.SessionStore == SessionStoreRedis && len(c.RedisAddrs) == 0 {
		vb.RequiredField("REDIS_ADDRS")
	}
	errors.ValidatePositive("SESSION_TTL", c.SessionTTL, vb)
	errors.ValidatePositive("HISTORY_TTL", c.HistoryTTL, vb)
	errors.ValidateMin("HISTORY_MAX_ROLLS", c.MaxHistory, 1, vb)
	errors.ValidateMin("DICE_MAX_COUNT", c.DiceMaxCount, 1, vb)
	errors.ValidateMin("DICE_MAX_SIDES", c.DiceMaxSides, 2, vb)
	if c.DiceMaxTotal < c.DiceMaxCount {
		vb.InvalidField("DICE_MAX_TOTAL", "must not be below DICE_MAX_COUNT")
	}

	return vb.Build()
}

// Production reports whether the service runs in production
func (c *Config) Production() bool {
	return c.Environment == EnvironmentProduction
}

// DiceLimits returns the evaluator bounds
func (c *Config) DiceLimits() *expression.Limits {
	limits := expression.DefaultLimits()
	limits.MaxCount = c.DiceMaxCount
	limits.MaxSides = c.DiceMaxSides
	limits.MaxTotalDice = c.DiceMaxTotal
	return &limits
}

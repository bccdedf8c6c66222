package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/rs/zerolog"
)

// Config holds the server configuration read from the environment
type Config struct {
	Port     string
	LogLevel zerolog.Level

	MinTickInterval time.Duration
	MaxTickInterval time.Duration
	RetryAfter      time.Duration

	GoalProbability     float64
	GoalMinuteFromClock bool
	RandomSeed          uint64
	SeedFile            string

	NATSURL           string
	NATSSubjectPrefix string

	AllowedOrigins []string
}

func loadConfig() (*Config, error) {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Port:                getEnv("PORT", "3000"),
		LogLevel:            level,
		MinTickInterval:     getEnvAsDuration("TICK_MIN_INTERVAL", 3*time.Second),
		MaxTickInterval:     getEnvAsDuration("TICK_MAX_INTERVAL", 5*time.Second),
		RetryAfter:          getEnvAsDuration("SSE_RETRY", 5*time.Second),
		GoalProbability:     getEnvAsFloat("GOAL_PROBABILITY", match.DefaultGoalProbability),
		GoalMinuteFromClock: getEnvAsBool("GOAL_MINUTE_FROM_CLOCK", false),
		RandomSeed:          uint64(getEnvAsInt("RANDOM_SEED", 0)),
		SeedFile:            getEnv("SEED_FILE", ""),
		NATSURL:             getEnv("NATS_URL", ""),
		NATSSubjectPrefix:   getEnv("NATS_SUBJECT_PREFIX", "scoreboard.events"),
		AllowedOrigins:      strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}

	if cfg.MinTickInterval <= 0 {
		return nil, fmt.Errorf("TICK_MIN_INTERVAL must be positive, got %s", cfg.MinTickInterval)
	}
	if cfg.MaxTickInterval < cfg.MinTickInterval {
		return nil, fmt.Errorf("TICK_MAX_INTERVAL (%s) must not be below TICK_MIN_INTERVAL (%s)", cfg.MaxTickInterval, cfg.MinTickInterval)
	}
	if cfg.GoalProbability < 0 || cfg.GoalProbability > 1 {
		return nil, fmt.Errorf("GOAL_PROBABILITY must be within [0,1], got %v", cfg.GoalProbability)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	LogLevel           string
	LogFormat          string
	SimulationMode     bool
	SimulationInterval time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int
	MaxSocketClients   int
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	simulationMode, err := parseBool("SIMULATION_MODE", false)
	if err != nil {
		return nil, err
	}
	cfg.SimulationMode = simulationMode

	interval, err := parseDuration("SIMULATION_INTERVAL", 2*time.Second)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("SIMULATION_INTERVAL must be positive")
	}
	cfg.SimulationInterval = interval

	ratePerSecond, err := parseFloat("RATE_LIMIT_PER_SECOND", 20)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitPerSecond = ratePerSecond

	burst, err := parseInt("RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = burst

	maxSockets, err := parseInt("MAX_SOCKET_CLIENTS", 256)
	if err != nil {
		return nil, err
	}
	if maxSockets <= 0 {
		return nil, fmt.Errorf("MAX_SOCKET_CLIENTS must be positive")
	}
	cfg.MaxSocketClients = maxSockets

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, raw)
	}
	return v, nil
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 2s, got %q", key, raw)
	}
	return v, nil
}

func parseFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return v, nil
}

func parseInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

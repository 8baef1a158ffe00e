package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	LogFile     string // empty discards logs in the console

	DataDir  string
	Scene    string
	RedisURL string // empty disables event publishing

	InteractRadius float64
	IdleMinDelay   float64
	IdleMaxDelay   float64
	FrameRate      int

	// EndingThreshold routes between good and bad endings by score when set.
	EndingThreshold *int
	LowScoreIsGood  bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:     getEnv("LOG_FILE", ""),
		DataDir:     getEnv("DATA_DIR", "./data"),
		Scene:       getEnv("SCENE", "course"),
		RedisURL:    getEnv("REDIS_URL", ""),
	}

	var err error
	if cfg.InteractRadius, err = getFloat("INTERACT_RADIUS", 3.0); err != nil {
		return nil, err
	}
	if cfg.IdleMinDelay, err = getFloat("IDLE_MIN_DELAY", 2.0); err != nil {
		return nil, err
	}
	if cfg.IdleMaxDelay, err = getFloat("IDLE_MAX_DELAY", 6.0); err != nil {
		return nil, err
	}
	if cfg.IdleMaxDelay < cfg.IdleMinDelay {
		return nil, fmt.Errorf("IDLE_MAX_DELAY (%v) is less than IDLE_MIN_DELAY (%v)", cfg.IdleMaxDelay, cfg.IdleMinDelay)
	}
	if cfg.FrameRate, err = getInt("FRAME_RATE", 30); err != nil {
		return nil, err
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("FRAME_RATE must be positive, got %d", cfg.FrameRate)
	}
	if cfg.LowScoreIsGood, err = strconv.ParseBool(getEnv("LOW_SCORE_IS_GOOD", "true")); err != nil {
		return nil, fmt.Errorf("invalid LOW_SCORE_IS_GOOD: %w", err)
	}

	if v := os.Getenv("ENDING_THRESHOLD"); v != "" {
		threshold, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ENDING_THRESHOLD: %w", err)
		}
		cfg.EndingThreshold = &threshold
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

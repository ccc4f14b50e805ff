package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/movaengine/runner/internal/logging"
	"github.com/movaengine/runner/internal/pathutil"
)

// Environment variables recognized by Load. Each overrides the corresponding
// file value when set.
const (
	EnvBind          = "RUNNER_BIND"
	EnvPort          = "RUNNER_PORT"
	EnvProjectRoot   = "PROJECT_ROOT"
	EnvAllowlist     = "RUNNER_ALLOWLIST"
	EnvRateLimit     = "RUNNER_RATE_LIMIT"
	EnvLogLevel      = "RUNNER_LOG_LEVEL"
	EnvEngineBaseURL = "MOVA_API_BASE"
	EnvEngineTimeout = "MOVA_API_TIMEOUT"
)

// Load builds the effective configuration: defaults, then the YAML file at
// path (optional when path is empty; otherwise required), then environment
// overrides. A .env file in the working directory is honored before the
// environment is read.
func Load(path string) (*Config, error) {
	// Best effort: deployments without a .env file are fine.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
			logging.Debug().Str("path", path).Msg("config file not found, using defaults")
		} else {
			cfg, err = Parse(data)
			if err != nil {
				return nil, err
			}
		}
	}

	applyEnv(cfg)

	cfg.ProjectRoot = pathutil.ExpandHome(cfg.ProjectRoot)
	cfg.AllowlistFile = pathutil.ExpandHome(cfg.AllowlistFile)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides cfg fields from the process environment. Unparseable
// numeric values are ignored rather than fatal, matching the permissive
// handling of the original deployment scripts.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBind); v != "" {
		cfg.Bind = v
	}
	if v, ok := envInt(EnvPort); ok {
		cfg.Port = v
	}
	if v := os.Getenv(EnvProjectRoot); v != "" {
		cfg.ProjectRoot = v
	}
	if v := os.Getenv(EnvAllowlist); v != "" {
		cfg.AllowlistFile = v
	}
	if v, ok := envInt(EnvRateLimit); ok {
		cfg.RateLimit = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvEngineBaseURL); v != "" {
		cfg.Engine.BaseURL = v
	}
	if v, ok := envInt(EnvEngineTimeout); ok {
		cfg.Engine.TimeoutSec = v
	}
}

// envInt reads an integer environment variable.
func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logging.Warn().Str("var", key).Str("value", v).Msg("ignoring non-integer environment override")
		return 0, false
	}
	return n, true
}

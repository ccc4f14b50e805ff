package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
)

// Validate checks a configuration for values the gateway cannot start with.
func Validate(cfg *Config) error {
	if cfg.Bind == "" {
		return errors.New("config: bind address is empty")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", cfg.Port)
	}
	if cfg.ProjectRoot == "" {
		return errors.New("config: project_root is empty")
	}
	if cfg.AllowlistFile == "" {
		return errors.New("config: allowlist_file is empty")
	}
	if cfg.RateLimit < 1 {
		return fmt.Errorf("config: rate_limit must be positive, got %d", cfg.RateLimit)
	}
	if cfg.DefaultTimeoutSec < 1 {
		return fmt.Errorf("config: default_timeout_sec must be positive, got %d", cfg.DefaultTimeoutSec)
	}
	if cfg.MaxTimeoutSec < cfg.DefaultTimeoutSec {
		return fmt.Errorf("config: max_timeout_sec %d below default_timeout_sec %d",
			cfg.MaxTimeoutSec, cfg.DefaultTimeoutSec)
	}
	if cfg.Engine.TimeoutSec < 1 {
		return fmt.Errorf("config: engine timeout_sec must be positive, got %d", cfg.Engine.TimeoutSec)
	}
	u, err := url.Parse(cfg.Engine.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: engine base_url %q is not a valid URL", cfg.Engine.BaseURL)
	}
	return nil
}

// AllowlistPath returns the absolute allow-list path, resolving a relative
// allowlist_file against the project root.
func AllowlistPath(cfg *Config) string {
	if filepath.IsAbs(cfg.AllowlistFile) {
		return cfg.AllowlistFile
	}
	return filepath.Join(cfg.ProjectRoot, cfg.AllowlistFile)
}

// ListenAddr returns the bind address in host:port form.
func ListenAddr(cfg *Config) string {
	return fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
}

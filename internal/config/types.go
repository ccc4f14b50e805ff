// Package config provides configuration for the runner gateway. Settings come
// from an optional YAML file with environment-variable overrides; the
// environment wins so deployments can tune a shared file per host.
package config

import "time"

// Config is the top-level gateway configuration.
type Config struct {
	// Bind is the listen address, e.g. "127.0.0.1".
	Bind string `yaml:"bind,omitempty"`

	// Port is the listen port.
	Port int `yaml:"port,omitempty"`

	// ProjectRoot is the directory all relative path arguments resolve
	// under. It is also the working directory for executed commands.
	ProjectRoot string `yaml:"project_root,omitempty"`

	// AllowlistFile is the command allow-list path. A relative value is
	// resolved against ProjectRoot.
	AllowlistFile string `yaml:"allowlist_file,omitempty"`

	// RateLimit is the number of accepted requests per sliding 60-second
	// window, shared across all callers.
	RateLimit int `yaml:"rate_limit,omitempty"`

	// DefaultTimeoutSec applies when a request omits timeout_sec.
	DefaultTimeoutSec int `yaml:"default_timeout_sec,omitempty"`

	// MaxTimeoutSec caps any requested execution timeout.
	MaxTimeoutSec int `yaml:"max_timeout_sec,omitempty"`

	Engine EngineConfig `yaml:"engine,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
	CORS   CORSConfig   `yaml:"cors,omitempty"`
}

// EngineTimeout returns the engine call timeout as a duration.
func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSec) * time.Second
}

// EngineConfig describes the remote workflow engine the gateway proxies to.
type EngineConfig struct {
	// BaseURL is the engine's base URL, e.g. "http://localhost:8080".
	BaseURL string `yaml:"base_url,omitempty"`

	// TimeoutSec bounds each proxied call to the engine.
	TimeoutSec int `yaml:"timeout_sec,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum operational log level (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool `yaml:"pretty,omitempty"`
}

// CORSConfig lists browser origins permitted to call the gateway.
type CORSConfig struct {
	Origins []string `yaml:"origins,omitempty"`
}

package config

// Defaults mirroring the historical runner deployment.
const (
	DefaultBind          = "127.0.0.1"
	DefaultPort          = 9090
	DefaultAllowlistFile = "runner.allowlist.yaml"
	DefaultRateLimit     = 15
	DefaultTimeoutSec    = 30
	DefaultMaxTimeoutSec = 300

	DefaultEngineBaseURL    = "http://localhost:8080"
	DefaultEngineTimeoutSec = 30
)

// Default returns the built-in configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Bind:              DefaultBind,
		Port:              DefaultPort,
		ProjectRoot:       ".",
		AllowlistFile:     DefaultAllowlistFile,
		RateLimit:         DefaultRateLimit,
		DefaultTimeoutSec: DefaultTimeoutSec,
		MaxTimeoutSec:     DefaultMaxTimeoutSec,
		Engine: EngineConfig{
			BaseURL:    DefaultEngineBaseURL,
			TimeoutSec: DefaultEngineTimeoutSec,
		},
		Log: LogConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
	}
}

package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "QUORUM_HOME"
	EnvOutputFormat = "QUORUM_OUTPUT_FORMAT"
	EnvVerbose      = "QUORUM_VERBOSE"
	EnvLogLevel     = "QUORUM_LOG_LEVEL"
	EnvLogFormat    = "QUORUM_LOG_FORMAT"
	EnvStrict       = "QUORUM_STRICT"
	EnvNoColor      = "NO_COLOR"
	EnvPassphrase   = "QUORUM_PASSPHRASE" // #nosec G101 -- variable name, not a credential
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvHome)); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvStrict); v != "" {
		cfg.Shares.Strict = parseBool(v)
	}

	// NO_COLOR disables colored output, whatever its value
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

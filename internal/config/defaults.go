package config

// DefaultScryptWorkFactor is the scrypt cost used for sealed share files.
const DefaultScryptWorkFactor = 18

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.quorum",
		Shares: SharesConfig{
			Strict:       false,
			Fingerprints: false,
			SealedDir:    "",
		},
		Security: SecurityConfig{
			MemoryLock:       true,
			ScryptWorkFactor: DefaultScryptWorkFactor,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level:  "error",
			Format: LogFormatText,
			File:   "~/.quorum/quorum.log",
		},
	}
}

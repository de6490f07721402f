// Package cli implements the quorum command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/output"
	"github.com/mrz1836/quorum/internal/quorumcrypto"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

// Command group IDs for root help.
const (
	groupSharing = "sharing"
	groupConfig  = "config"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "quorum",
	Short: "Split small secrets into threshold shares",
	Long: `Quorum splits a secret into n shares so that any k of them reconstruct it
and fewer than k reveal nothing about it (Shamir's threshold scheme).

All arithmetic is done modulo the prime 2147483647 (2^31 - 1). A secret is
folded into a single field element, so at most 3 bytes survive a round trip.
Longer secrets are accepted but reconstruct to a different value; use --strict
to refuse them.

Shares are printed one per line as "<index> <value>", or sealed into
passphrase-encrypted files with --out-dir.`,
	Example: `  quorum generate AB 5 3
  quorum generate AB 5 3 -o text | head -3 | quorum reconstruct 3
  quorum config set shares.strict true`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := initGlobals(cmd); err != nil {
			return err
		}
		SetCmdContext(cmd, NewCommandContext(cfg, logger, formatter))
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	walkCommands(rootCmd, enrichParentLong)

	err := rootCmd.Execute()
	if err != nil {
		if logger != nil {
			logFailure(logger, err)
		}

		// Format and print error
		if formatter != nil {
			_ = output.FormatError(os.Stderr, err, formatter.Format())
		} else {
			_ = output.FormatError(os.Stderr, err, output.FormatText)
		}
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return quorumerr.ExitCode(err)
}

// resolveHome picks the data directory: --home, then QUORUM_HOME, then ~/.quorum.
func resolveHome() string {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}
	if expanded, err := config.ExpandHome(home); err == nil {
		home = expanded
	}
	return home
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	home := resolveHome()

	loaded, err := config.LoadOrDefault(config.Path(home))
	if err != nil {
		return quorumerr.WithSuggestion(
			quorumerr.FromCause(quorumerr.ErrConfigInvalid, err),
			"fix or remove "+config.Path(home),
		)
	}
	cfg = loaded

	// Apply environment variable overrides
	config.ApplyEnvironment(cfg)

	// The resolved home is authoritative for where config lives.
	cfg.Home = home

	// Override with command-line flags
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = config.LogLevelDebug.String()
	}
	if outputFormat != "" && outputFormat != string(output.FormatAuto) {
		cfg.Output.DefaultFormat = outputFormat
	}

	// config commands must run on a broken file so it can be repaired.
	if !isConfigCommand(cmd) {
		if err := cfg.Validate(); err != nil {
			return quorumerr.WithSuggestion(
				quorumerr.FromCause(quorumerr.ErrConfigInvalid, err),
				"run 'quorum config set <key> <value>' to correct it",
			)
		}
		quorumcrypto.ScryptWorkFactor = cfg.Security.ScryptWorkFactor
	}

	// Initialize logger
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = filepath.Join(home, "quorum.log")
	}
	logger, err = config.OpenLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.GetLoggingFormat(), logFile)
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
	}

	// Initialize formatter
	explicitFormat := output.ParseFormat(cfg.Output.DefaultFormat)
	detectedFormat := output.DetectFormat(os.Stdout, explicitFormat)
	formatter = output.NewFormatter(detectedFormat, os.Stdout)

	logger.Debug("quorum started: command=%s home=%s", cmd.CommandPath(), home)
	return nil
}

// isConfigCommand reports whether cmd is part of the config command tree.
func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupSharing, Title: "Secret Sharing:"},
		&cobra.Group{ID: groupConfig, Title: "Configuration:"},
	)
	rootCmd.SetHelpCommandGroupID(groupConfig)
	rootCmd.SetCompletionCommandGroupID(groupConfig)

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "quorum data directory (default: ~/.quorum)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
